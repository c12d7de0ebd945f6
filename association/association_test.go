package association_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dulengine/dul/acse"
	"github.com/dulengine/dul/aetitle"
	"github.com/dulengine/dul/association"
	"github.com/dulengine/dul/config"
	"github.com/dulengine/dul/dimse"
	"github.com/dulengine/dul/transfersyntax"
)

const verificationSOPClass = "1.2.840.10008.1.1"

func testConfig() config.Config {
	cfg := config.Default()
	cfg.ConnectionTimeout = 2 * time.Second
	cfg.ACSETimeout = 2 * time.Second
	cfg.ARTIMTimeout = 2 * time.Second
	return cfg
}

// listen starts a raw TCP listener on a loopback port and returns it;
// the listener is closed through t.Cleanup when the test ends.
func listen(t *testing.T) net.Listener {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestAssociateAcceptEchoRelease(t *testing.T) {
	l := listen(t)
	cfg := testConfig()

	calling, err := aetitle.Parse("SCU")
	require.NoError(t, err)
	called, err := aetitle.Parse("SCP")
	require.NoError(t, err)

	acceptedCh := make(chan *association.Association, 1)
	acceptErrCh := make(chan error, 1)
	go func() {
		conn, err := l.Accept()
		if err != nil {
			acceptErrCh <- err
			return
		}
		assoc, err := association.Accept(context.Background(), conn, association.AcceptorParams{
			CalledAET: called,
			Supported: map[string][]string{
				verificationSOPClass: {transfersyntax.ImplicitVRLittleEndian},
			},
		}, cfg)
		if err != nil {
			acceptErrCh <- err
			return
		}
		acceptedCh <- assoc
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	scu, err := association.Associate(ctx, l.Addr().String(), association.RequestorParams{
		CallingAET: calling,
		CalledAET:  called,
		ProposedContexts: []acse.ProposedContext{
			{AbstractSyntax: verificationSOPClass, TransferSyntaxes: []string{transfersyntax.ImplicitVRLittleEndian}},
		},
	}, cfg)
	require.NoError(t, err)
	require.Equal(t, association.LifecycleEstablished, scu.Lifecycle())

	var scp *association.Association
	select {
	case scp = <-acceptedCh:
	case err := <-acceptErrCh:
		t.Fatalf("acceptor side failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("acceptor side never established")
	}
	require.Equal(t, "SCU", scp.CallingAET.String())

	pcSCU, ok := scu.ContextByID(1)
	require.True(t, ok)
	pcSCP, ok := scp.ContextByID(1)
	require.True(t, ok)

	msgID := scu.NextMessageID()
	rq := &dimse.CEchoRq{MessageID: msgID, CommandDataSetType: dimse.CommandDataSetTypeNull}
	require.NoError(t, scu.SendDIMSE(pcSCU.ContextID, rq, nil))

	recvCtx, recvCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer recvCancel()
	msg, _, err := scp.RecvDIMSE(recvCtx, pcSCP.ContextID)
	require.NoError(t, err)
	gotRq, ok := msg.(*dimse.CEchoRq)
	require.True(t, ok)
	require.Equal(t, msgID, gotRq.MessageID)

	rsp := &dimse.CEchoRsp{
		MessageIDBeingRespondedTo: gotRq.MessageID,
		CommandDataSetType:        dimse.CommandDataSetTypeNull,
		Status:                    dimse.Success,
	}
	require.NoError(t, scp.SendDIMSE(pcSCP.ContextID, rsp, nil))

	recvCtx2, recvCancel2 := context.WithTimeout(context.Background(), 2*time.Second)
	defer recvCancel2()
	msg, _, err = scu.RecvDIMSE(recvCtx2, pcSCU.ContextID)
	require.NoError(t, err)
	gotRsp, ok := msg.(*dimse.CEchoRsp)
	require.True(t, ok)
	require.Equal(t, dimse.StatusSuccess, gotRsp.Status.Status)

	releaseCtx, releaseCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer releaseCancel()
	require.NoError(t, scu.Release(releaseCtx))

	select {
	case <-scp.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("acceptor side never tore down after release")
	}
}

func TestAssociateRejectsUnsupportedAbstractSyntax(t *testing.T) {
	l := listen(t)
	cfg := testConfig()

	calling, err := aetitle.Parse("SCU")
	require.NoError(t, err)
	called, err := aetitle.Parse("SCP")
	require.NoError(t, err)

	acceptErrCh := make(chan error, 1)
	go func() {
		conn, err := l.Accept()
		if err != nil {
			acceptErrCh <- err
			return
		}
		_, err = association.Accept(context.Background(), conn, association.AcceptorParams{
			CalledAET: called,
			Supported: map[string][]string{
				"1.2.840.10008.5.1.4.1.1.7": {transfersyntax.ImplicitVRLittleEndian},
			},
		}, cfg)
		acceptErrCh <- err
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = association.Associate(ctx, l.Addr().String(), association.RequestorParams{
		CallingAET: calling,
		CalledAET:  called,
		ProposedContexts: []acse.ProposedContext{
			{AbstractSyntax: verificationSOPClass, TransferSyntaxes: []string{transfersyntax.ImplicitVRLittleEndian}},
		},
	}, cfg)
	require.Error(t, err)

	select {
	case err := <-acceptErrCh:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("acceptor side never rejected")
	}
}

func TestAbortUnblocksPeer(t *testing.T) {
	l := listen(t)
	cfg := testConfig()

	calling, err := aetitle.Parse("SCU")
	require.NoError(t, err)
	called, err := aetitle.Parse("SCP")
	require.NoError(t, err)

	acceptedCh := make(chan *association.Association, 1)
	acceptErrCh := make(chan error, 1)
	go func() {
		conn, err := l.Accept()
		if err != nil {
			acceptErrCh <- err
			return
		}
		assoc, err := association.Accept(context.Background(), conn, association.AcceptorParams{
			CalledAET: called,
			Supported: map[string][]string{
				verificationSOPClass: {transfersyntax.ImplicitVRLittleEndian},
			},
		}, cfg)
		if err != nil {
			acceptErrCh <- err
			return
		}
		acceptedCh <- assoc
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	scu, err := association.Associate(ctx, l.Addr().String(), association.RequestorParams{
		CallingAET: calling,
		CalledAET:  called,
		ProposedContexts: []acse.ProposedContext{
			{AbstractSyntax: verificationSOPClass, TransferSyntaxes: []string{transfersyntax.ImplicitVRLittleEndian}},
		},
	}, cfg)
	require.NoError(t, err)

	var scp *association.Association
	select {
	case scp = <-acceptedCh:
	case err := <-acceptErrCh:
		t.Fatalf("acceptor side failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("acceptor side never established")
	}

	scu.Abort()

	select {
	case <-scp.Done():
	case <-time.After(transportWaitUpperBound(cfg)):
		t.Fatal("peer never observed the abort")
	}
	require.Equal(t, association.LifecycleAborted, scp.Lifecycle())
}

func transportWaitUpperBound(cfg config.Config) time.Duration {
	return cfg.ARTIMTimeout + 3*time.Second
}

// establishPairWithConfigs wires up a requestor/acceptor pair over a
// loopback listener, using a separate config per side so timer tests can
// make exactly one side time out instead of racing both.
func establishPairWithConfigs(t *testing.T, scuCfg, scpCfg config.Config) (scu, scp *association.Association) {
	t.Helper()
	l := listen(t)

	calling, err := aetitle.Parse("SCU")
	require.NoError(t, err)
	called, err := aetitle.Parse("SCP")
	require.NoError(t, err)

	acceptedCh := make(chan *association.Association, 1)
	acceptErrCh := make(chan error, 1)
	go func() {
		conn, err := l.Accept()
		if err != nil {
			acceptErrCh <- err
			return
		}
		assoc, err := association.Accept(context.Background(), conn, association.AcceptorParams{
			CalledAET: called,
			Supported: map[string][]string{
				verificationSOPClass: {transfersyntax.ImplicitVRLittleEndian},
			},
		}, scpCfg)
		if err != nil {
			acceptErrCh <- err
			return
		}
		acceptedCh <- assoc
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	scu, err = association.Associate(ctx, l.Addr().String(), association.RequestorParams{
		CallingAET: calling,
		CalledAET:  called,
		ProposedContexts: []acse.ProposedContext{
			{AbstractSyntax: verificationSOPClass, TransferSyntaxes: []string{transfersyntax.ImplicitVRLittleEndian}},
		},
	}, scuCfg)
	require.NoError(t, err)

	select {
	case scp = <-acceptedCh:
	case err := <-acceptErrCh:
		t.Fatalf("acceptor side failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("acceptor side never established")
	}
	return scu, scp
}

func TestNetworkInactivityTimeoutAborts(t *testing.T) {
	scuCfg := testConfig()
	scuCfg.NetworkTimeout = 100 * time.Millisecond
	scuCfg.NetworkTimeoutResponse = config.NetworkTimeoutAbort
	scpCfg := testConfig()
	scpCfg.NetworkTimeout = 10 * time.Second

	scu, scp := establishPairWithConfigs(t, scuCfg, scpCfg)

	// Neither side sends anything; the requestor's idle period alone
	// must trip its network timer, abort locally, and the acceptor
	// observes the abort in turn.
	select {
	case <-scu.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("requestor side never timed out")
	}
	require.Equal(t, association.LifecycleAborted, scu.Lifecycle())

	select {
	case <-scp.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("acceptor side never observed the abort")
	}
}

func TestNetworkInactivityTimeoutReleases(t *testing.T) {
	scuCfg := testConfig()
	scuCfg.NetworkTimeout = 100 * time.Millisecond
	scuCfg.NetworkTimeoutResponse = config.NetworkTimeoutRelease
	scpCfg := testConfig()
	scpCfg.NetworkTimeout = 10 * time.Second

	scu, scp := establishPairWithConfigs(t, scuCfg, scpCfg)

	select {
	case <-scu.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("requestor side never released on inactivity")
	}
	require.Equal(t, association.LifecycleClosed, scu.Lifecycle())

	select {
	case <-scp.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("acceptor side never torn down after the peer released")
	}
}

func TestDIMSETimeoutAbortsUnansweredRequest(t *testing.T) {
	scuCfg := testConfig()
	scuCfg.DIMSETimeout = 100 * time.Millisecond
	// Keep the network timer well out of the way so only the DIMSE timer
	// can fire during this test.
	scuCfg.NetworkTimeout = 10 * time.Second
	scpCfg := testConfig()
	scpCfg.NetworkTimeout = 10 * time.Second

	scu, scp := establishPairWithConfigs(t, scuCfg, scpCfg)
	defer scp.Abort()

	pcSCU, ok := scu.ContextByID(1)
	require.True(t, ok)

	msgID := scu.NextMessageID()
	rq := &dimse.CEchoRq{MessageID: msgID, CommandDataSetType: dimse.CommandDataSetTypeNull}
	// scp deliberately never answers; the requestor's own DIMSE timer
	// must abort the association once it gives up waiting.
	require.NoError(t, scu.SendDIMSE(pcSCU.ContextID, rq, nil))

	select {
	case <-scu.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("requestor side never aborted on unanswered DIMSE request")
	}
	require.Equal(t, association.LifecycleAborted, scu.Lifecycle())
}
