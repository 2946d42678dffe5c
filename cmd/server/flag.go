package main

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flag names, which are also the keys of the config file.
// The environment variable for each flag is the upper case name with underscores, such as HTTP_PORT.
const (
	flagConfig           = "config"
	flagHTTPPort         = "http-port"
	flagHTTPSPort        = "https-port"
	flagPort             = "port"
	flagTLSCertFile      = "tls-cert-file"
	flagTLSKeyFile       = "tls-key-file"
	flagNoTLSRedirect    = "no-tls-redirect"
	flagCacheSec         = "cache-sec"
	flagDataSource       = "data-source"
	flagMongoURL         = "mongo-url"
	flagFirestoreProject = "firestore-project"
	flagRedisAddr        = "redis-addr"
	flagRedisPassword    = "redis-password"
	flagMaxPip           = "max-pip"
	flagMaxPlayers       = "max-players"
	flagHandSize         = "hand-size"
	flagRoundStep        = "round-step"
	flagStartingRound    = "starting-round"
	flagRoundDelay       = "round-delay"
	flagMaxGames         = "max-games"
	flagMaxSockets       = "max-sockets"
	flagDebugGame        = "debug-game"
	flagLogLevel         = "log-level"
)

const (
	defaultCacheSec int = 60 * 60 * 24 // 1 day
)

// mainFlags are the configuration options which can be easily configured at run startup for different environments.
type mainFlags struct {
	httpPort         int
	httpsPort        int
	tlsCertFile      string
	tlsKeyFile       string
	noTLSRedirect    bool
	cacheSec         int
	dataSource       string
	mongoURL         string
	firestoreProject string
	redisAddr        string
	redisPassword    string
	maxPip           int
	maxPlayers       int
	handSize         int
	roundStep        int
	startingRound    int
	roundDelay       time.Duration
	maxGames         int
	maxSockets       int
	debugGame        bool
	logLevel         string
}

// addFlags adds the flags of the server to the flag set.
func addFlags(fs *pflag.FlagSet) {
	fs.String(flagConfig, "", "An optional yaml, json, or toml file to read flag values from.")
	fs.Int(flagHTTPPort, 0, "The TCP port for server http requests.  All traffic is redirected to the https port.")
	fs.Int(flagHTTPSPort, 0, "The TCP port for server https requests.")
	fs.Int(flagPort, 0, "The single port to run the server on.  Overrides the https-port flag.  Causes the server to not handle http requests, ignoring http-port.")
	fs.String(flagTLSCertFile, "", "The absolute path of the certificate file to use for TLS.")
	fs.String(flagTLSKeyFile, "", "The absolute path of the key file to use for TLS.")
	fs.Bool(flagNoTLSRedirect, false, "Disables HTTPS redirection from http if present.  Used when TLS is terminated by a proxy.")
	fs.Int(flagCacheSec, defaultCacheSec, "The number of seconds the rules are cached.")
	fs.String(flagDataSource, "", "The data source to the PostgreSQL database (connection URI) to store users in.")
	fs.String(flagMongoURL, "", "The url of the MongoDB database to store users in.  Used if data-source is not set.")
	fs.String(flagFirestoreProject, "", "The Google Cloud project id of the Firestore database to store users in.  Used if data-source and mongo-url are not set.")
	fs.String(flagRedisAddr, "", "The host:port of the redis server to store match results in.  Results are not kept if not set.")
	fs.String(flagRedisPassword, "", "The password of the redis server.")
	fs.Int(flagMaxPip, 12, "The highest pip value on a tile.  The first round starts with this double.")
	fs.Int(flagMaxPlayers, 4, "The number of seats in each game.  A game starts when all seats are taken.")
	fs.Int(flagHandSize, 15, "The number of tiles dealt to each player at the start of a round.")
	fs.Int(flagRoundStep, 1, "How much the starting double decreases each round.")
	fs.Int(flagStartingRound, 1, "The round to start games at, skipping the rounds with the highest doubles.")
	fs.Duration(flagRoundDelay, 5*time.Second, "The time to wait after a round ends before starting the next round.")
	fs.Int(flagMaxGames, 16, "The maximum number of games that can run at once.")
	fs.Int(flagMaxSockets, 64, "The maximum number of websockets that can be connected to the lobby.")
	fs.Bool(flagDebugGame, false, "Logs message types in the console when messages are passed between components.")
	fs.String(flagLogLevel, "info", "The minimum level of messages to log: trace, debug, info, warn, error, fatal, or panic.")
}

// newMainFlags creates a new, populated mainFlags structure from the values in viper.
// If the port flag is set, only the https server is run on that port.
func newMainFlags(v *viper.Viper) mainFlags {
	m := mainFlags{
		httpPort:         v.GetInt(flagHTTPPort),
		httpsPort:        v.GetInt(flagHTTPSPort),
		tlsCertFile:      v.GetString(flagTLSCertFile),
		tlsKeyFile:       v.GetString(flagTLSKeyFile),
		noTLSRedirect:    v.GetBool(flagNoTLSRedirect),
		cacheSec:         v.GetInt(flagCacheSec),
		dataSource:       v.GetString(flagDataSource),
		mongoURL:         v.GetString(flagMongoURL),
		firestoreProject: v.GetString(flagFirestoreProject),
		redisAddr:        v.GetString(flagRedisAddr),
		redisPassword:    v.GetString(flagRedisPassword),
		maxPip:           v.GetInt(flagMaxPip),
		maxPlayers:       v.GetInt(flagMaxPlayers),
		handSize:         v.GetInt(flagHandSize),
		roundStep:        v.GetInt(flagRoundStep),
		startingRound:    v.GetInt(flagStartingRound),
		roundDelay:       v.GetDuration(flagRoundDelay),
		maxGames:         v.GetInt(flagMaxGames),
		maxSockets:       v.GetInt(flagMaxSockets),
		debugGame:        v.GetBool(flagDebugGame),
		logLevel:         v.GetString(flagLogLevel),
	}
	if port := v.GetInt(flagPort); port != 0 {
		m.httpsPort = port
		m.httpPort = -1
	}
	return m
}
