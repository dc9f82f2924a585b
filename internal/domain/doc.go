// Package domain contains the core business entities of the cost advisor:
// cloud resources under analysis, the recommendations produced for them,
// and the users who request analyses. Entities validate themselves and
// carry no persistence or transport concerns.
package domain
