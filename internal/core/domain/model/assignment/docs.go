// Package assignment contains the DeliveryAssignment aggregate: a unit of
// delivery work holding one or more parcels that share a destination. An
// assignment belongs to exactly one session; a parcel may belong to at most
// one assignment whose session is active, enforced by a storage-level unique
// constraint.
package assignment
