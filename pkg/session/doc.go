// Package session implements the login and two-factor state machine for
// a DocCollab client.
//
// A SessionService tracks three mutually exclusive states: anonymous,
// pending two-factor, and authenticated. SignIn with a 2FA-enabled
// account parks the sign-in as pending; only ConfirmTwoFactor with a
// valid authenticator passcode or backup code promotes it. A second
// SignIn while one is pending replaces the earlier pending attempt.
//
// Basic usage:
//
//	repo := session.NewInMemoryAccountRepository()
//	svc := session.NewSessionService(repo)
//
//	account, err := svc.SignUp(ctx, session.SignUpParams{
//	    Email:    "ada@example.com",
//	    Username: "ada",
//	    Password: "correct horse battery",
//	})
//
//	result, err := svc.SignIn(ctx, "ada@example.com", "correct horse battery")
//	if result.RequiresTwoFactor {
//	    account, err = svc.ConfirmTwoFactor(ctx, code)
//	}
//
// Enrollment is a two-step wizard. BeginEnrollment returns transient
// material (secret, provisioning URI, QR image, backup codes) without
// touching the account; ConfirmEnrollment verifies a passcode against
// that material and persists everything in one repository call.
// Abandoning the wizard leaves the account exactly as it was.
//
// Accounts live behind the AccountRepository interface. Three
// implementations ship with the package: an in-memory store for tests,
// a JSON file store, and a PostgreSQL store.
package session
