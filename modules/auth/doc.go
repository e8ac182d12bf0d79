// Package auth implements account identity flows: local email/password
// signup gated by a one-time code sent over email, Google OAuth with a
// deferred username step, and JWT session issuance and verification.
//
// Local and Google accounts are disjoint identity spaces that share a
// username namespace. Local accounts exist only after OTP verification;
// Google accounts are created on the first OAuth callback and stay in an
// awaiting-username state until a username is chosen.
package auth
