// Package whatsapp connects the bot to WhatsApp through a linked-device
// session stored in SQLite.
package whatsapp

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/mdp/qrterminal/v3"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jdelaire/gymbot/core"
	"github.com/jdelaire/gymbot/internal/db"
)

const qrImageURL = "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data="

// Client is a WhatsApp session. It implements core.Transport.
type Client struct {
	wa        *whatsmeow.Client
	container *sqlstore.Container
	handler   core.MessageHandler
	logger    *zap.Logger
	qrOut     io.Writer
}

// Open loads (or creates) the device session stored at sessionPath.
func Open(ctx context.Context, sessionPath string, logger *zap.Logger) (*Client, error) {
	if err := os.MkdirAll(filepath.Dir(sessionPath), 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	quiet := logger.WithOptions(zap.IncreaseLevel(zapcore.InfoLevel))
	dsn := "file:" + sessionPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	container, err := sqlstore.New(ctx, db.Driver, dsn, NewLogger(quiet, "store"))
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		container.Close()
		return nil, fmt.Errorf("load device: %w", err)
	}

	c := &Client{
		wa:        whatsmeow.NewClient(device, NewLogger(quiet, "client")),
		container: container,
		logger:    logger,
		qrOut:     os.Stdout,
	}
	c.wa.AddEventHandler(c.onEvent)
	return c, nil
}

// OnMessage sets the handler for inbound messages. Each message is handled
// on its own goroutine.
func (c *Client) OnMessage(h core.MessageHandler) {
	c.handler = h
}

// Start connects, pairing by QR code when no session exists, and blocks
// until ctx is cancelled.
func (c *Client) Start(ctx context.Context) error {
	if c.wa.Store.ID == nil {
		if err := c.pair(ctx); err != nil {
			return err
		}
	} else if err := c.wa.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	c.logger.Info("whatsapp client started")
	<-ctx.Done()
	c.wa.Disconnect()
	c.logger.Info("whatsapp client stopped")
	return nil
}

// Close releases the session store.
func (c *Client) Close() error {
	return c.container.Close()
}

func (c *Client) pair(ctx context.Context) error {
	qrChan, err := c.wa.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("qr channel: %w", err)
	}
	if err := c.wa.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	for item := range qrChan {
		switch item.Event {
		case whatsmeow.QRChannelEventCode:
			c.logger.Info("scan the QR code to link this device", zap.String("image", qrImageURL+url.QueryEscape(item.Code)))
			qrterminal.GenerateHalfBlock(item.Code, qrterminal.L, c.qrOut)
		case whatsmeow.QRChannelSuccess.Event:
			c.logger.Info("device linked")
			return nil
		default:
			if item.Error != nil {
				return fmt.Errorf("pairing failed: %w", item.Error)
			}
			return fmt.Errorf("pairing ended: %s", item.Event)
		}
	}
	return ctx.Err()
}

func (c *Client) onEvent(evt any) {
	switch e := evt.(type) {
	case *events.Message:
		msg, ok := toInbound(e)
		if !ok || c.handler == nil {
			return
		}
		go c.handler(msg)
	case *events.Connected:
		c.logger.Info("whatsapp connected")
	case *events.Disconnected:
		c.logger.Warn("whatsapp disconnected")
	case *events.LoggedOut:
		c.logger.Error("whatsapp session logged out, relink the device", zap.String("reason", e.Reason.String()))
	}
}
