package dbconfig

import (
	"flag"
	"io/ioutil"
	"net/url"

	"github.com/pkg/errors"
)

// Config captures command line arguments pertaining to database access & migration
type Config struct {
	uri           string
	migrationsDir string
	passwordFile  string
}

// New makes a new config, primarily for testing
func New(uri, migrationsDir, passwordFile string) Config {
	return Config{uri: uri,
		migrationsDir: migrationsDir,
		passwordFile:  passwordFile}
}

// RegisterFlags registers configuration variables with a flag set
func (cfg *Config) RegisterFlags(f *flag.FlagSet, defaultURI, uriHelp, defaultMigrationsDir, migrationsDirHelp string) {
	f.StringVar(&cfg.uri, "database.uri", defaultURI, uriHelp)
	f.StringVar(&cfg.migrationsDir, "database.migrations", defaultMigrationsDir, migrationsDirHelp)
	f.StringVar(&cfg.passwordFile, "database.password-file", "", "File containing password (username goes in URI)")
}

// Parameters validates the database configuration arguments and reads in password material from the filesystem
func (cfg *Config) Parameters() (scheme, dataSourceName, migrationDir string, err error) {
	uri, err := url.Parse(cfg.uri)
	if err != nil {
		return "", "", "", errors.Wrap(err, "Could not parse database URI")
	}

	if len(cfg.passwordFile) != 0 {
		if uri.User == nil {
			return "", "", "", errors.New("--database.password-file requires username in --database.uri")
		}
		passwordBytes, err := ioutil.ReadFile(cfg.passwordFile)
		if err != nil {
			return "", "", "", errors.Wrap(err, "Could not read database password file")
		}
		uri.User = url.UserPassword(uri.User.Username(), string(passwordBytes))
	}

	return uri.Scheme, uri.String(), cfg.migrationsDir, nil
}
