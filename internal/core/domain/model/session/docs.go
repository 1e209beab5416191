// Package session contains the DeliverySession aggregate: a shipper's single
// active work period owning a set of assignments. At most one session per
// shipper may be in an active status at a time; the invariant is enforced by
// a storage-level unique constraint, not by this package.
package session
