// Package types holds the small set of opaque dense-index types shared
// across the score set's internal components. MemberID and BucketID are
// plain integers, never pointers: indices outlive the values they once
// pointed at and carry no destructor.
package types

// MemberID is a stable dense handle to an interned member name.
type MemberID uint32

// BucketID is a dense handle to a per-score sorted member list.
type BucketID uint32

// InvalidMemberID marks the absence of a member.
const InvalidMemberID MemberID = 1<<32 - 1

// InvalidBucketID marks the absence of a bucket.
const InvalidBucketID BucketID = 1<<32 - 1
