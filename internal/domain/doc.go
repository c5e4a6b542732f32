// Package domain contains the core business entities of the places API:
// places, the users who own them, and the validation rules both must obey.
// It has no knowledge of storage or transport.
package domain
