package notify

import "fmt"

// Mail bodies for the account lifecycle. When origin is set the mail links
// straight into the console; otherwise it carries the raw token for use
// against the API.

func VerificationEmail(backendURL, origin, token string) (subject, html string) {
	var message string
	if origin != "" {
		verifyURL := fmt.Sprintf("%s/accounts/verify-email/%s", backendURL, token)
		message = fmt.Sprintf(
			`<p>Please click the below link to verify your email address:</p>
			 <p><a href=%q>%s</a></p>`, verifyURL, verifyURL)
	} else {
		message = fmt.Sprintf(
			`<p>Please use the below token to verify your email address with the <code>/accounts/verify-email</code> api route:</p>
			 <p><code>%s</code></p>`, token)
	}

	return "Verify Email",
		fmt.Sprintf(`<h4>Verify Email</h4><p>Thanks for registering!</p>%s`, message)
}

func AlreadyRegisteredEmail(origin, email string) (subject, html string) {
	var message string
	if origin != "" {
		message = fmt.Sprintf(
			`<p>If you don't know your password please visit the <a href="%s/account/forgot-password">forgot password</a> page.</p>`, origin)
	} else {
		message = `<p>If you don't know your password you can reset it via the <code>/accounts/forgot-password</code> api route.</p>`
	}

	return "Email Already Registered",
		fmt.Sprintf(`<h4>Email Already Registered</h4><p>Your email <strong>%s</strong> is already registered.</p>%s`, email, message)
}

func PasswordResetEmail(origin, token string) (subject, html string) {
	var message string
	if origin != "" {
		resetURL := fmt.Sprintf("%s/account/reset-password?token=%s", origin, token)
		message = fmt.Sprintf(
			`<p>Please click the below link to reset your password, the link will be valid for 1 day:</p>
			 <p><a href=%q>%s</a></p>`, resetURL, resetURL)
	} else {
		message = fmt.Sprintf(
			`<p>Please use the below token to reset your password with the <code>/accounts/reset-password</code> api route:</p>
			 <p><code>%s</code></p>`, token)
	}

	return "Reset Password", fmt.Sprintf(`<h4>Reset Password Email</h4>%s`, message)
}
