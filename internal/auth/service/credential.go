package service

// credential is the closed set of proofs a caller can present to the token
// endpoint. Adding a new kind means adding a case to resolveCredential, so the
// compiler-visible type switch stays exhaustive by inspection.
type credential interface {
	credential()
}

// passwordCredential proves identity with a username and password.
type passwordCredential struct {
	Username string
	Password string
}

// refreshCredential proves identity with a previously issued opaque refresh
// token, presented in its base64url wire form.
type refreshCredential struct {
	Value string
}

func (passwordCredential) credential() {}
func (refreshCredential) credential()  {}
