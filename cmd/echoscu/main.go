// Command echoscu is a thin DICOM verification SCU: it opens an
// association, issues a single C-ECHO, prints the response status, and
// releases (spec.md §6 "thin wrappers, not part of the core").
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dulengine/dul/acse"
	"github.com/dulengine/dul/aetitle"
	"github.com/dulengine/dul/association"
	"github.com/dulengine/dul/config"
	"github.com/dulengine/dul/dimse"
	"github.com/dulengine/dul/transfersyntax"
)

const verificationSOPClass = "1.2.840.10008.1.1"

func main() {
	var (
		calledAET  = flag.String("called-aet", "ANY-SCP", "called AE title")
		callingAET = flag.String("calling-aet", "ECHOSCU", "calling AE title")
		addr       = flag.String("addr", "127.0.0.1:11112", "host:port of the SCP")
		timeout    = flag.Duration("timeout", 10*time.Second, "overall timeout for the echo")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, *addr, *calledAET, *callingAET); err != nil {
		log.Error().Err(err).Msg("echoscu: failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, log zerolog.Logger, addr, calledAET, callingAET string) error {
	calling, err := aetitle.Parse(callingAET)
	if err != nil {
		return fmt.Errorf("echoscu: calling AE title: %w", err)
	}
	called, err := aetitle.Parse(calledAET)
	if err != nil {
		return fmt.Errorf("echoscu: called AE title: %w", err)
	}

	cfg := config.Default()
	cfg.Logger = log

	assoc, err := association.Associate(ctx, addr, association.RequestorParams{
		CallingAET: calling,
		CalledAET:  called,
		ProposedContexts: []acse.ProposedContext{
			{AbstractSyntax: verificationSOPClass, TransferSyntaxes: []string{transfersyntax.ImplicitVRLittleEndian}},
		},
	}, cfg)
	if err != nil {
		return fmt.Errorf("echoscu: association: %w", err)
	}
	log.Info().Str("peer", addr).Msg("echoscu: association established")

	pc, ok := assoc.ContextByID(1)
	if !ok {
		assoc.Abort()
		return fmt.Errorf("echoscu: verification context was not accepted")
	}

	msgID := assoc.NextMessageID()
	rq := &dimse.CEchoRq{MessageID: msgID, CommandDataSetType: dimse.CommandDataSetTypeNull}
	if err := assoc.SendDIMSE(pc.ContextID, rq, nil); err != nil {
		assoc.Abort()
		return fmt.Errorf("echoscu: sending C-ECHO-RQ: %w", err)
	}

	msg, _, err := assoc.RecvDIMSE(ctx, pc.ContextID)
	if err != nil {
		assoc.Abort()
		return fmt.Errorf("echoscu: waiting for C-ECHO-RSP: %w", err)
	}
	rsp, ok := msg.(*dimse.CEchoRsp)
	if !ok {
		assoc.Abort()
		return fmt.Errorf("echoscu: unexpected response message %T", msg)
	}
	log.Info().Uint16("message-id", msgID).Interface("status", rsp.Status).Msg("echoscu: C-ECHO-RSP received")

	return assoc.Release(ctx)
}
