// Package store defines the persistence interfaces used by the service
// layer, together with the shared database abstractions (DBTX, transaction
// helper) and the sentinel errors store implementations map their backend
// errors onto.
package store
