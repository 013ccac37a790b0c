// Package provisioner turns an authorization code or an access token into a
// Google Meet space.
//
// A caller that already holds an access token gets the raw meeting URI back.
// A browser returning from the consent screen with an authorization code gets
// an HTML page that redirects to the meeting and embeds it in an iframe.
package provisioner
