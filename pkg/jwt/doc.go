// Package jwt implements HS256 JSON Web Tokens with a minimal API:
// Generate signs arbitrary claims, Parse verifies the signature and the
// algorithm and, when the claims type implements Valid() error, the
// temporal claims as well.
//
// Only HMAC-SHA256 is supported. Tokens carrying any other algorithm are
// rejected outright to prevent algorithm confusion attacks.
package jwt
