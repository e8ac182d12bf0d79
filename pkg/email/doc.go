// Package email provides outbound email delivery behind the EmailSender
// interface, with a Postmark client for production and a file-based sender
// for development.
package email
