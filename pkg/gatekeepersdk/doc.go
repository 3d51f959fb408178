/*
Package gatekeepersdk is a client for the gatekeeper web session API, and the
home of the request, response and error types the server writes.

Services that accept a web panel token (the chat bot's command handler, the
panel backends) check it with VerifyToken:

	client := gatekeepersdk.NewClient("https://auth.estopia.net")

	ok, err := client.VerifyToken(ctx, token)
	switch {
	case gatekeepersdk.IsExpired(err):
		// ask the user to log in again
	case gatekeepersdk.IsNotFound(err):
		// unknown or rotated token
	case err != nil:
		// transport or server failure
	}

Login and Register return the issued token. The server also sets it as the
authToken cookie for browser callers.
*/
package gatekeepersdk
