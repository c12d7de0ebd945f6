// Command echoscp is a thin DICOM verification SCP: it accepts
// associations proposing the Verification SOP Class, answers every
// C-ECHO with Success, and otherwise just waits for the peer to release
// (spec.md §6 "thin wrappers, not part of the core").
package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dulengine/dul/aetitle"
	"github.com/dulengine/dul/association"
	"github.com/dulengine/dul/config"
	"github.com/dulengine/dul/dimse"
	"github.com/dulengine/dul/transfersyntax"
	"github.com/dulengine/dul/transport"
)

const verificationSOPClass = "1.2.840.10008.1.1"

func main() {
	var (
		addr      = flag.String("addr", "0.0.0.0:11112", "address to listen on")
		calledAET = flag.String("called-aet", "ANY-SCP", "AE title this SCP answers to")
		verbose   = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	called, err := aetitle.Parse(*calledAET)
	if err != nil {
		log.Fatal().Err(err).Msg("echoscp: called AE title")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Default()
	cfg.Logger = log

	supported := map[string][]string{
		verificationSOPClass: {transfersyntax.ImplicitVRLittleEndian, transfersyntax.ExplicitVRLittleEndian},
	}

	err = transport.Serve(ctx, *addr, transport.ServeOptions{Logger: log}, func(ctx context.Context, conn net.Conn) {
		handleConnection(ctx, conn, called, supported, cfg, log)
	})
	if err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("echoscp: serve failed")
		os.Exit(1)
	}
}

func handleConnection(ctx context.Context, conn net.Conn, called aetitle.AET, supported map[string][]string, cfg config.Config, log zerolog.Logger) {
	defer conn.Close()

	assoc, err := association.Accept(ctx, conn, association.AcceptorParams{
		CalledAET: called,
		Supported: supported,
	}, cfg)
	if err != nil {
		log.Warn().Err(err).Str("peer", conn.RemoteAddr().String()).Msg("echoscp: association rejected")
		return
	}
	log.Info().Str("calling-aet", assoc.CallingAET.String()).Msg("echoscp: association established")

	pc, ok := assoc.ContextByID(1)
	if !ok {
		assoc.Abort()
		return
	}

	for {
		msg, _, err := assoc.RecvDIMSE(ctx, pc.ContextID)
		if err != nil {
			return
		}
		rq, ok := msg.(*dimse.CEchoRq)
		if !ok {
			continue
		}
		rsp := &dimse.CEchoRsp{
			MessageIDBeingRespondedTo: rq.MessageID,
			CommandDataSetType:        dimse.CommandDataSetTypeNull,
			Status:                    dimse.Success,
		}
		if err := assoc.SendDIMSE(pc.ContextID, rsp, nil); err != nil {
			log.Warn().Err(err).Msg("echoscp: sending C-ECHO-RSP")
			return
		}
	}
}
