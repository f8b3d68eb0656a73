// Package connection is the relay-cli HTTP client.
//
// It speaks the relay JSON API: every call is a POST with a JSON body,
// except health and admin reads which are GETs. Failed calls surface as
// *APIError carrying the server's error code.
package connection
