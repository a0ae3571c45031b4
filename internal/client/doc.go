// Package client is the Go client for a papan server's HTTP API.
//
// It is used by papan-cfg and implements panel.Committer and
// announcement.Mutator, so the settings panel and the announcement editor
// can drive a remote board exactly as they drive a local store.
//
// # Usage Example
//
//	c := client.NewWithURL("http://192.168.1.20:8080")
//	cfg, err := c.Settings()
//	if err != nil {
//	    fmt.Println(client.GetShortErrorMessage(err))
//	    fmt.Println(client.GetTroubleshootingHint(err))
//	    return
//	}
//	cfg.InstitutionName = "SMA Negeri 1"
//	if _, err := c.ReplaceSettings(cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Every failure is an *APIError classified by ErrorType. Reads (GET) are
// retried with exponential backoff on network errors, 429 and 5xx. Writes
// are sent once.
package client
