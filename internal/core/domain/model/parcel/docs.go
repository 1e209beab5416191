// Package parcel contains the Parcel aggregate and its delivery state
// machine. A parcel moves through its lifecycle exclusively via
// Parcel.Apply, which consults a single transition table mapping
// (status, event) pairs to the next status. Keeping the table in one place
// makes the legal lifecycle auditable as data.
package parcel
