package main

import (
	"context"
	crypto_rand "crypto/rand"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/jacobpatterson1549/mexican-train/db"
	"github.com/jacobpatterson1549/mexican-train/db/bcrypt"
	"github.com/jacobpatterson1549/mexican-train/db/firestore"
	"github.com/jacobpatterson1549/mexican-train/db/history"
	"github.com/jacobpatterson1549/mexican-train/db/mongo"
	"github.com/jacobpatterson1549/mexican-train/db/sql"
	"github.com/jacobpatterson1549/mexican-train/db/sql/postgres"
	"github.com/jacobpatterson1549/mexican-train/db/user"
	"github.com/jacobpatterson1549/mexican-train/game"
	"github.com/jacobpatterson1549/mexican-train/game/match"
	"github.com/jacobpatterson1549/mexican-train/server"
	"github.com/jacobpatterson1549/mexican-train/server/auth"
	gameController "github.com/jacobpatterson1549/mexican-train/server/game"
	"github.com/jacobpatterson1549/mexican-train/server/game/lobby"
	"github.com/jacobpatterson1549/mexican-train/server/game/seat"
	"github.com/jacobpatterson1549/mexican-train/server/game/socket"
	"github.com/jacobpatterson1549/mexican-train/server/log"
	_ "github.com/lib/pq" // register "postgres" database driver from package init() function
	"github.com/redis/go-redis/v9"
)

const (
	tokenValidDurationSec = int64(24 * time.Hour / time.Second)
	tokenKeyLength        = 64
	queryPeriod           = 5 * time.Second
	resultTTL             = 30 * 24 * time.Hour
	maxRecentResults      = 100
	historyLimit          = 25
	winPoints             = 10
	maxPlayerSockets      = 5
)

type (
	// components are the parts of the server that are created from the flags.
	components struct {
		server *server.Server
		// redisClient is closed when the server stops, if it was opened.
		redisClient *redis.Client
	}

	// historyStore keeps match results and serves them to the server.
	historyStore interface {
		server.History
		gameController.Recorder
	}
)

// newComponents creates the server and the stores it uses.
func (m mainFlags) newComponents(ctx context.Context, log log.Logger) (*components, error) {
	tokenizer, err := newTokenizer(crypto_rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("creating authentication tokenizer: %w", err)
	}
	backend, err := m.userBackend(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating user backend: %w", err)
	}
	ud, err := user.NewDao(backend, bcrypt.NewPasswordHandler())
	if err != nil {
		return nil, fmt.Errorf("creating user dao: %w", err)
	}
	if err := ud.Setup(ctx); err != nil {
		return nil, fmt.Errorf("setting up user dao: %w", err)
	}
	var c components
	hs, err := m.newHistoryStore(ctx, &c)
	if err != nil {
		return nil, fmt.Errorf("creating history store: %w", err)
	}
	rules := m.gameConfig()
	lobby, err := m.newLobby(log, ud, hs, rules)
	if err != nil {
		return nil, fmt.Errorf("creating lobby: %w", err)
	}
	serverCfg := m.serverConfig(rules)
	p := server.Parameters{
		Logger:    log,
		Tokenizer: tokenizer,
		UserDao:   ud,
		Lobby:     lobby,
		History:   hs,
	}
	s, err := serverCfg.NewServer(p)
	if err != nil {
		return nil, err
	}
	c.server = s
	return &c, nil
}

// close releases connections to the stores.
func (c components) close(log log.Logger) {
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			log.Printf("closing redis client: %v", err)
		}
	}
}

// newTokenizer creates a tokenizer with a random key read from the reader.
func newTokenizer(keyReader io.Reader) (server.Tokenizer, error) {
	key := make([]byte, tokenKeyLength)
	if _, err := io.ReadFull(keyReader, key); err != nil {
		return nil, fmt.Errorf("generating tokenizer key: %w", err)
	}
	cfg := auth.TokenizerConfig{
		TimeFunc: func() int64 {
			return time.Now().UTC().Unix()
		},
		ValidSec: tokenValidDurationSec,
	}
	return cfg.NewTokenizer(key)
}

// userBackend creates the backend to store users in.
// The first database that is configured is used: PostgreSQL, MongoDB, then Firestore.
// Users are not stored if no database is configured.
func (m mainFlags) userBackend(ctx context.Context) (user.Backend, error) {
	dbCfg := db.Config{
		QueryPeriod: queryPeriod,
	}
	switch {
	case len(m.dataSource) != 0:
		cfg := sql.DatabaseConfig{
			DriverName:  "postgres",
			DatabaseURL: m.dataSource,
			QueryPeriod: dbCfg.QueryPeriod,
		}
		d, err := cfg.NewDatabase()
		if err != nil {
			return nil, err
		}
		return postgres.NewUserBackend(d)
	case len(m.mongoURL) != 0:
		return mongo.NewUserBackend(ctx, dbCfg, m.mongoURL)
	case len(m.firestoreProject) != 0:
		return firestore.NewUserBackend(ctx, dbCfg, m.firestoreProject)
	}
	return user.NoDatabaseBackend{}, nil
}

// newHistoryStore creates the store for match results.
// Results are stored in redis if it is configured, otherwise they are discarded.
func (m mainFlags) newHistoryStore(ctx context.Context, c *components) (historyStore, error) {
	if len(m.redisAddr) == 0 {
		return history.Discard{}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     m.redisAddr,
		Password: m.redisPassword,
	})
	cfg := history.Config{
		Config: db.Config{
			QueryPeriod: queryPeriod,
		},
		TTL:       resultTTL,
		MaxRecent: maxRecentResults,
	}
	s, err := cfg.NewStore(client)
	if err != nil {
		client.Close()
		return nil, err
	}
	if err := s.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	c.redisClient = client
	return s, nil
}

// gameConfig creates the rules of new games.
func (m mainFlags) gameConfig() game.Config {
	return game.Config{
		MaxPip:        m.maxPip,
		MaxPlayers:    m.maxPlayers,
		HandSize:      m.handSize,
		RoundStep:     m.roundStep,
		StartingRound: m.startingRound,
	}
}

// newLobby creates the lobby, which runs the sockets and games.
func (m mainFlags) newLobby(log log.Logger, ud gameController.UserDao, rec gameController.Recorder, rules game.Config) (*lobby.Lobby, error) {
	seats := seat.NewDirectory()
	socketRunnerCfg := m.socketRunnerConfig()
	socketRunner, err := socketRunnerCfg.NewRunner(log, seats)
	if err != nil {
		return nil, err
	}
	gameRunnerCfg := m.gameRunnerConfig(rules)
	gameRunner, err := gameRunnerCfg.NewRunner(log, ud, rec)
	if err != nil {
		return nil, err
	}
	lobbyCfg := lobby.Config{
		Debug: m.debugGame,
	}
	return lobbyCfg.NewLobby(log, socketRunner, gameRunner)
}

// socketRunnerConfig creates the configuration for the runner of websockets.
func (m mainFlags) socketRunnerConfig() socket.RunnerConfig {
	readWait := 60 * time.Second
	socketCfg := socket.Config{
		Debug:          m.debugGame,
		ReadWait:       readWait,
		WriteWait:      10 * time.Second,
		PingPeriod:     readWait * 9 / 10,
		HTTPPingPeriod: 10 * time.Minute,
	}
	return socket.RunnerConfig{
		Debug:            m.debugGame,
		MaxSockets:       m.maxSockets,
		MaxPlayerSockets: maxPlayerSockets,
		SocketConfig:     socketCfg,
	}
}

// gameRunnerConfig creates the configuration for the runner of games.
func (m mainFlags) gameRunnerConfig(rules game.Config) gameController.RunnerConfig {
	timeFunc := func() int64 {
		return time.Now().UTC().Unix()
	}
	matchCfg := match.Config{
		Config:   rules,
		IntnFunc: rand.Intn,
	}
	gameCfg := gameController.Config{
		Debug:       m.debugGame,
		TimeFunc:    timeFunc,
		IdlePeriod:  60 * time.Minute,
		RoundDelay:  m.roundDelay,
		WinPoints:   winPoints,
		MatchConfig: matchCfg,
	}
	return gameController.RunnerConfig{
		Debug:      m.debugGame,
		MaxGames:   m.maxGames,
		GameConfig: gameCfg,
	}
}

// serverConfig creates the configuration of the http server.
func (m mainFlags) serverConfig(rules game.Config) server.Config {
	return server.Config{
		HTTPPort:      m.httpPort,
		HTTPSPort:     m.httpsPort,
		StopDur:       time.Second,
		CacheSec:      m.cacheSec,
		TLSCertFile:   m.tlsCertFile,
		TLSKeyFile:    m.tlsKeyFile,
		NoTLSRedirect: m.noTLSRedirect,
		GameConfig:    rules,
		HistoryLimit:  historyLimit,
	}
}
