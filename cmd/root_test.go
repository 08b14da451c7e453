package cmd

import "testing"

func TestGetConfigDefaultServerAddr(t *testing.T) {
	// The serve command binds server.addr as a pflag at init, so viper
	// materializes the server section with an empty address even without a
	// config file. The default must still win.
	config, err := getConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.Server == nil {
		t.Fatalf("expected a server config")
	}
	if config.Server.Addr != ":8080" {
		t.Fatalf("expected the default listen address, got %q", config.Server.Addr)
	}
	if config.Matching == nil {
		t.Fatalf("expected a matching config")
	}
}
