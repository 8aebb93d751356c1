package deploy

// Target identifies the warehouse project a run executes against, along
// with the credential handle established by the CI environment. It is passed
// explicitly into the executor so runs never depend on ambient global state.
type Target struct {
	Project  string
	Dialect  string
	Location string

	// CredentialsFile points at the short-lived credential produced by
	// workload identity federation. Empty means the query command relies
	// on its own ambient authentication.
	CredentialsFile string
}
