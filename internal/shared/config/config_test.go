package config

import "testing"

func TestDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			"sqlite file",
			DatabaseConfig{Driver: DriverSQLite, Path: "data/archive.db"},
			"data/archive.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		},
		{
			"postgres",
			DatabaseConfig{Driver: DriverPostgres, Host: "db", Port: "5432", User: "exporter", Password: "secret", Name: "systems", SSLMode: "disable"},
			"host=db port=5432 user=exporter password=secret dbname=systems sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ConnectionString(); got != tt.want {
				t.Errorf("ConnectionString() = %q, want %q", got, tt.want)
			}
		})
	}
}
