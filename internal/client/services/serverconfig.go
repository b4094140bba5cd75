// Package services contains application services for the jwtclient CLI.
// This file defines the server-address provider: the host and port the
// client talks to, persisted in the local database so the choice survives
// restarts.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/jwtclient/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jwtclient/internal/dbx"
)

const (
	keyServerHost = "server.ip"
	keyServerPort = "server.port"
)

var ErrInvalidAddress = errors.New("invalid server address")

// ServerConfigService reads and writes the server address.
//
// Contract:
//   - GetServerAddress: the saved address, or the configured fallback when
//     nothing has been saved.
//   - SaveServerAddress: validate and persist host and port together.
//   - ResetServerAddress: forget the saved address.
type ServerConfigService interface {
	GetServerAddress(ctx context.Context) (host, port string, err error)
	SaveServerAddress(ctx context.Context, host, port string) error
	ResetServerAddress(ctx context.Context) error
}

type serverConfigService struct {
	db           *sql.DB
	repo         metadata.Repository
	fallbackHost string
	fallbackPort string
}

func NewServerConfigService(db *sql.DB, fallbackHost, fallbackPort string) ServerConfigService {
	return &serverConfigService{
		db:           db,
		repo:         metadata.NewSQLiteRepository(db),
		fallbackHost: fallbackHost,
		fallbackPort: fallbackPort,
	}
}

func (s *serverConfigService) GetServerAddress(ctx context.Context) (string, string, error) {
	host, err := s.repo.Get(ctx, keyServerHost)
	if err != nil {
		return "", "", err
	}
	port, err := s.repo.Get(ctx, keyServerPort)
	if err != nil {
		return "", "", err
	}
	if host == nil || port == nil {
		return s.fallbackHost, s.fallbackPort, nil
	}
	return string(host), string(port), nil
}

func (s *serverConfigService) SaveServerAddress(ctx context.Context, host, port string) error {
	host, port, err := ValidateAddress(host, port)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo.WithDB(tx)
		if err := repo.Set(ctx, keyServerHost, []byte(host)); err != nil {
			return err
		}
		return repo.Set(ctx, keyServerPort, []byte(port))
	})
}

func (s *serverConfigService) ResetServerAddress(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo.WithDB(tx)
		if err := repo.Delete(ctx, keyServerHost); err != nil {
			return err
		}
		return repo.Delete(ctx, keyServerPort)
	})
}

// ValidateAddress trims host and port and checks that both are present and
// the port is in 1..65535.
func ValidateAddress(host, port string) (string, string, error) {
	host = strings.TrimSpace(host)
	port = strings.TrimSpace(port)

	if host == "" || port == "" {
		return "", "", fmt.Errorf("%w: host and port are required", ErrInvalidAddress)
	}
	if strings.ContainsAny(host, "/ ") {
		return "", "", fmt.Errorf("%w: bad host %q", ErrInvalidAddress, host)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return "", "", fmt.Errorf("%w: bad port %q", ErrInvalidAddress, port)
	}
	return host, port, nil
}

// BaseURL builds the http base URL for host and port.
func BaseURL(host, port string) string {
	return "http://" + net.JoinHostPort(host, port)
}
