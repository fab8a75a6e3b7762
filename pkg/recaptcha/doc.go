// Package recaptcha verifies CAPTCHA challenge/response pairs against the legacy (v1) reCAPTCHA
// verify API. The protocol is a single form-encoded POST answered with a plaintext body that is
// either "true" or "false\n<error-code>".
package recaptcha
