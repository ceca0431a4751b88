/*
Package authsdk provides the wire types and a Go client for the e-KYC
account service.

# SDKClient vs Session

  - SDKClient: registration, login, email verification and health probes
  - Session: calls made with a session token (profile, password, admin)

Typical flow:

	client := authsdk.NewSDKClient("https://ekyc.example.com")

	user, err := client.Register(ctx, authsdk.RegisterRequest{
		Username:        "alice",
		Email:           "a@x.com",
		Password:        "Abc12345!",
		ConfirmPassword: "Abc12345!",
	})

	// The code arrives by email.
	session, err := client.VerifyOTP(ctx, user.ID, code)

	profile, err := session.Profile(ctx)

Logging in before the email is verified fails with a
*VerificationRequiredError carrying the account id; the service mails a new
code at the same time:

	session, err := client.Login(ctx, "alice", "Abc12345!")
	var pending *authsdk.VerificationRequiredError
	if errors.As(err, &pending) {
		session, err = client.VerifyOTP(ctx, pending.UserID, code)
	}

# Errors

Every other failure is an *APIError holding the HTTP status and the
service's message. Validation failures also carry per-field reasons in
Fields.

# Thread Safety

Sessions are safe for concurrent use.
*/
package authsdk
