// Package mongodb is the MongoDB credential store. It persists local
// accounts, pending signups and Google accounts in separate collections
// and backs both the auth and profile storage interfaces.
//
// Uniqueness that the services pre-check (username, email, google id) is
// also enforced here with unique indexes, so concurrent identical
// requests cannot both slip past the check-then-act window.
package mongodb
