// Package profile serves authenticated read and write access to account
// profile fields: display name, bio, avatar, language, timezone and
// notification preferences. It works uniformly over both account types
// through the provider carried by the authenticated identity.
package profile
