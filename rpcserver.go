// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/halsimplicity/halsimd/hal"
	"github.com/halsimplicity/halsimd/internal/log"
	"github.com/halsimplicity/halsimd/simjson"
	"github.com/halsimplicity/halsimd/txenv"
)

const (
	// rpcAuthTimeoutSeconds is the number of seconds a connection to the
	// RPC server is allowed to stay open without authenticating before it
	// is closed.
	rpcAuthTimeoutSeconds = 10

	// maxRequestSize is the largest request body the server reads.  PSETs
	// carrying programs and proofs stay well below it.
	maxRequestSize = 8 * 1024 * 1024

	// shutdownTimeout bounds how long in-flight requests may take to
	// finish once the server is asked to stop.
	shutdownTimeout = 5 * time.Second
)

var rpcsLog = log.RpcsLog

type commandHandler func(*rpcServer, interface{}, <-chan struct{}) (interface{}, error)

// rpcHandlers maps RPC command strings to appropriate handler functions.
// This is set by init because help references rpcHandlers and thus causes
// a dependency loop.
var rpcHandlers map[string]commandHandler
var rpcHandlersBeforeInit = map[string]commandHandler{
	"address_create":     handleAddressCreate,
	"address_inspect":    handleAddressInspect,
	"help":               handleHelp,
	"keypair_generate":   handleKeypairGenerate,
	"pset_create":        handlePsetCreate,
	"pset_extract":       handlePsetExtract,
	"pset_finalize":      handlePsetFinalize,
	"pset_run":           handlePsetRun,
	"pset_update_input":  handlePsetUpdateInput,
	"simplicity_info":    handleSimplicityInfo,
	"simplicity_sighash": handleSimplicitySighash,
	"stop":               handleStop,
	"tx_create":          handleTxCreate,
	"tx_decode":          handleTxDecode,
}

func init() {
	rpcHandlers = rpcHandlersBeforeInit
}

// internalRPCError is a convenience function to convert an internal error to
// an RPC error with the appropriate code set.  It also logs the error to the
// RPC server subsystem since internal errors really should not occur.  The
// context parameter is only used in the log message and may be empty if it's
// not needed.
func internalRPCError(errStr, context string) *btcjson.RPCError {
	logStr := errStr
	if context != "" {
		logStr = context + ": " + errStr
	}
	rpcsLog.Error(logStr)
	return btcjson.NewRPCError(btcjson.ErrRPCInternal.Code, errStr)
}

// rpcErrorFor converts an error returned by an operation to the RPC error
// sent to the client.  The class of a txenv.Error selects the code.
func rpcErrorFor(err error) *btcjson.RPCError {
	var rpcErr *btcjson.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	var opErr txenv.Error
	if !errors.As(err, &opErr) {
		return internalRPCError(err.Error(), "")
	}

	code := btcjson.ErrRPCMisc
	switch {
	case errors.Is(err, txenv.ErrPsetDecode), errors.Is(err, txenv.ErrTxDecode):
		code = btcjson.ErrRPCDeserialization
	case errors.Is(err, txenv.ErrFormat), errors.Is(err, txenv.ErrBounds):
		code = btcjson.ErrRPCInvalidParameter
	case errors.Is(err, txenv.ErrMissingData):
		code = btcjson.ErrRPCInvalidAddressOrKey
	}
	return btcjson.NewRPCError(code, err.Error())
}

// handleAddressCreate implements the address_create command.
func handleAddressCreate(s *rpcServer, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	return s.cfg.Handler.CreateAddress(cmd.(*simjson.AddressCreateCmd))
}

// handleAddressInspect implements the address_inspect command.
func handleAddressInspect(s *rpcServer, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	return s.cfg.Handler.InspectAddress(cmd.(*simjson.AddressInspectCmd))
}

// handleKeypairGenerate implements the keypair_generate command.
func handleKeypairGenerate(s *rpcServer, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	return s.cfg.Handler.GenerateKeypair(cmd.(*simjson.KeypairGenerateCmd))
}

// handlePsetCreate implements the pset_create command.
func handlePsetCreate(s *rpcServer, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	return s.cfg.Handler.CreatePset(cmd.(*simjson.PsetCreateCmd))
}

// handlePsetExtract implements the pset_extract command.
func handlePsetExtract(s *rpcServer, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	return s.cfg.Handler.ExtractPset(cmd.(*simjson.PsetExtractCmd))
}

// handlePsetFinalize implements the pset_finalize command.
func handlePsetFinalize(s *rpcServer, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	return s.cfg.Handler.Finalize(cmd.(*simjson.PsetFinalizeCmd))
}

// handlePsetRun implements the pset_run command.  A program that fails is
// not an RPC error: the result reports success false with the jets traced
// up to the failure.
func handlePsetRun(s *rpcServer, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	return s.cfg.Handler.Run(cmd.(*simjson.PsetRunCmd))
}

// handlePsetUpdateInput implements the pset_update_input command.
func handlePsetUpdateInput(s *rpcServer, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	return s.cfg.Handler.UpdateInput(cmd.(*simjson.PsetUpdateInputCmd))
}

// handleSimplicityInfo implements the simplicity_info command.
func handleSimplicityInfo(s *rpcServer, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	return s.cfg.Handler.Info(cmd.(*simjson.SimplicityInfoCmd))
}

// handleSimplicitySighash implements the simplicity_sighash command.
func handleSimplicitySighash(s *rpcServer, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	return s.cfg.Handler.Sighash(cmd.(*simjson.SimplicitySighashCmd))
}

// handleTxCreate implements the tx_create command.
func handleTxCreate(s *rpcServer, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	return s.cfg.Handler.CreateTx(cmd.(*simjson.TxCreateCmd))
}

// handleTxDecode implements the tx_decode command.
func handleTxDecode(s *rpcServer, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	return s.cfg.Handler.DecodeTx(cmd.(*simjson.TxDecodeCmd))
}

// handleHelp implements the help command.
func handleHelp(s *rpcServer, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	c := cmd.(*btcjson.HelpCmd)

	// Provide a usage overview of all commands when no specific command
	// was specified.
	var command string
	if c.Command != nil {
		command = *c.Command
	}
	if command == "" {
		usage, err := s.helpCacher.rpcUsage()
		if err != nil {
			context := "Failed to generate RPC usage"
			return nil, internalRPCError(err.Error(), context)
		}
		return usage, nil
	}

	// Check that the command asked for is supported and implemented.
	if _, ok := rpcHandlers[command]; !ok {
		return nil, &btcjson.RPCError{
			Code:    btcjson.ErrRPCInvalidParameter,
			Message: "Unknown command: " + command,
		}
	}

	// Get the help for the command.
	help, err := s.helpCacher.rpcMethodHelp(command)
	if err != nil {
		context := "Failed to generate help"
		return nil, internalRPCError(err.Error(), context)
	}
	return help, nil
}

// handleStop implements the stop command.
func handleStop(s *rpcServer, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	select {
	case s.requestProcessShutdown <- struct{}{}:
	default:
	}
	return "halsimd stopping.", nil
}

// rpcRequest is a JSON-RPC request whose params are kept raw, so they can be
// decoded either as a positional array or as an object keyed by parameter
// name.
type rpcRequest struct {
	Jsonrpc btcjson.RPCVersion `json:"jsonrpc"`
	Method  string             `json:"method"`
	Params  json.RawMessage    `json:"params"`
	ID      interface{}        `json:"id"`
}

// parsedRPCCmd represents a JSON-RPC request object that has been parsed into
// a known concrete command along with any error that might have happened
// while parsing it.
type parsedRPCCmd struct {
	id     interface{}
	method string
	cmd    interface{}
	err    *btcjson.RPCError
}

// parseCmd parses a JSON-RPC request object into known concrete command.  The
// err field of the returned parsedRPCCmd struct will contain an RPC error
// that is suitable for use in replies if the command is invalid in some way
// such as an unregistered command or invalid parameters.
func parseCmd(request *rpcRequest) *parsedRPCCmd {
	parsedCmd := parsedRPCCmd{
		id:     request.ID,
		method: request.Method,
	}

	var (
		cmd interface{}
		err error
	)
	if simjson.IsNamedParams(request.Params) {
		cmd, err = simjson.UnmarshalNamedCmd(request.Method, request.Params)
	} else {
		var params []json.RawMessage
		trimmed := bytes.TrimSpace(request.Params)
		if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			if err := json.Unmarshal(trimmed, &params); err != nil {
				parsedCmd.err = btcjson.NewRPCError(
					btcjson.ErrRPCInvalidParams.Code,
					"Failed to parse request: params must be "+
						"an array or an object")
				return &parsedCmd
			}
		}
		cmd, err = btcjson.UnmarshalCmd(&btcjson.Request{
			Jsonrpc: request.Jsonrpc,
			Method:  request.Method,
			Params:  params,
			ID:      request.ID,
		})
	}
	if err != nil {
		// When the error is because the method is not registered,
		// produce a method not found RPC error.
		var jerr btcjson.Error
		if errors.As(err, &jerr) &&
			jerr.ErrorCode == btcjson.ErrUnregisteredMethod {

			parsedCmd.err = btcjson.ErrRPCMethodNotFound
			return &parsedCmd
		}

		// Otherwise, some type of invalid parameters is the
		// cause, so produce the equivalent RPC error.
		parsedCmd.err = btcjson.NewRPCError(
			btcjson.ErrRPCInvalidParams.Code,
			"Failed to parse request: "+err.Error())
		return &parsedCmd
	}

	parsedCmd.cmd = cmd
	return &parsedCmd
}

// createMarshalledReply returns a new marshalled JSON-RPC response given the
// passed parameters.  It will automatically convert errors that are not of
// the type *btcjson.RPCError to the appropriate type as needed.
func createMarshalledReply(rpcVersion btcjson.RPCVersion, id interface{}, result interface{}, replyErr error) ([]byte, error) {
	var jsonErr *btcjson.RPCError
	if replyErr != nil {
		jsonErr = rpcErrorFor(replyErr)
		result = nil
	}
	return btcjson.MarshalResponse(rpcVersion, id, result, jsonErr)
}

// rpcserverConfig is a descriptor containing the RPC server configuration.
type rpcserverConfig struct {
	// Listeners defines a slice of listeners for which the RPC server will
	// take ownership of and accept connections.  Since the RPC server takes
	// ownership of these listeners, they will be closed when the RPC server
	// is stopped.
	Listeners []net.Listener

	// Handler executes the commands.
	Handler *hal.Handler

	// RPCUser and RPCPass are the HTTP basic auth credentials.  Auth is
	// disabled when both are empty.
	RPCUser string
	RPCPass string

	// MaxClients bounds the concurrent HTTP POST clients, MaxWebsockets
	// the concurrent websocket clients and MaxConcurrentReqs the requests
	// executing at once across both.
	MaxClients        int
	MaxWebsockets     int
	MaxConcurrentReqs int
}

// rpcServer provides a concurrent safe RPC server to a Simplicity handler.
type rpcServer struct {
	started                int32
	shutdown               int32
	cfg                    rpcserverConfig
	authsha                [sha256.Size]byte
	authRequired           bool
	numClients             int32
	numWebsockets          int32
	requestSem             chan struct{}
	metrics                *rpcMetrics
	helpCacher             *helpCacher
	upgrader               websocket.Upgrader
	wg                     sync.WaitGroup
	requestProcessShutdown chan struct{}
	quit                   chan int
}

// checkAuth checks the HTTP Basic authentication supplied by a client in
// the HTTP request r.  If the supplied authentication does not match the
// username and password expected, a non-nil error is returned.
//
// This check is time-constant.
func (s *rpcServer) checkAuth(r *http.Request) error {
	if !s.authRequired {
		return nil
	}

	authhdr := r.Header["Authorization"]
	if len(authhdr) <= 0 {
		rpcsLog.Warnf("RPC authentication failure from %s", r.RemoteAddr)
		return errors.New("auth failure")
	}

	authsha := sha256.Sum256([]byte(authhdr[0]))
	cmp := subtle.ConstantTimeCompare(authsha[:], s.authsha[:])
	if cmp != 1 {
		rpcsLog.Warnf("RPC authentication failure from %s", r.RemoteAddr)
		return errors.New("auth failure")
	}
	return nil
}

// jsonAuthFail sends a message back to the client if the http auth is
// rejected.
func jsonAuthFail(w http.ResponseWriter) {
	w.Header().Add("WWW-Authenticate", `Basic realm="halsimd RPC"`)
	http.Error(w, "401 Unauthorized.", http.StatusUnauthorized)
}

// limitClients reserves a slot in counter below max.  It returns false,
// after writing a 503 response, when the limit is reached.  The caller must
// release a reserved slot with atomic.AddInt32(counter, -1).
func (s *rpcServer) limitClients(w http.ResponseWriter, remoteAddr string, counter *int32, max int) bool {
	if int(atomic.AddInt32(counter, 1)) > max {
		atomic.AddInt32(counter, -1)
		rpcsLog.Infof("Max RPC clients exceeded [%d] - "+
			"disconnecting client %s", max, remoteAddr)
		http.Error(w, "503 Too busy.  Try again later.",
			http.StatusServiceUnavailable)
		return false
	}
	return true
}

// processRequest decodes one JSON-RPC request, runs it and returns the
// marshalled reply.  The request waits for a free slot in the request
// semaphore and gives up once ctx is done.
func (s *rpcServer) processRequest(ctx context.Context, body []byte) []byte {
	var request rpcRequest
	if err := json.Unmarshal(body, &request); err != nil {
		jsonErr := btcjson.NewRPCError(btcjson.ErrRPCParse.Code,
			"Failed to parse request: "+err.Error())
		reply, _ := btcjson.MarshalResponse(btcjson.RpcVersion1, nil,
			nil, jsonErr)
		return reply
	}
	rpcVersion := request.Jsonrpc
	if !rpcVersion.IsValid() {
		rpcVersion = btcjson.RpcVersion1
	}
	if !btcjson.IsValidIDType(request.ID) {
		jsonErr := btcjson.NewRPCError(btcjson.ErrRPCInvalidRequest.Code,
			"Invalid request: id must be a string, number or null")
		reply, _ := btcjson.MarshalResponse(rpcVersion, nil, nil, jsonErr)
		return reply
	}

	select {
	case s.requestSem <- struct{}{}:
		defer func() { <-s.requestSem }()
	case <-ctx.Done():
		reply, _ := createMarshalledReply(rpcVersion, request.ID, nil,
			internalRPCError("request canceled", request.Method))
		return reply
	}

	reqID := uuid.New()
	start := time.Now()

	var (
		result interface{}
		err    error
	)
	parsed := parseCmd(&request)
	if parsed.err != nil {
		err = parsed.err
	} else {
		rpcsLog.Debugf("Request %v: %s", reqID, parsed.method)
		rpcsLog.Tracef("Request %v command: %v", reqID,
			log.NewLogClosure(func() string {
				return spew.Sdump(parsed.cmd)
			}))
		result, err = s.standardCmdResult(parsed, ctx.Done())
	}
	var jsonErr *btcjson.RPCError
	if err != nil {
		jsonErr = rpcErrorFor(err)
		result = nil
		rpcsLog.Debugf("Request %v: %s failed: %v", reqID,
			request.Method, err)
	}
	s.metrics.observe(request.Method, jsonErr, time.Since(start))

	reply, err := btcjson.MarshalResponse(rpcVersion, request.ID, result,
		jsonErr)
	if err != nil {
		errStr := fmt.Sprintf("Failed to marshal reply: %v", err)
		reply, _ = createMarshalledReply(rpcVersion, request.ID, nil,
			internalRPCError(errStr, request.Method))
	}
	rpcsLog.Tracef("Request %v reply: %s", reqID, reply)
	return reply
}

// standardCmdResult checks that a parsed command is a standard halsimd
// JSON-RPC command and runs the appropriate handler to reply to the command.
func (s *rpcServer) standardCmdResult(cmd *parsedRPCCmd, closeChan <-chan struct{}) (interface{}, error) {
	handler, ok := rpcHandlers[cmd.method]
	if !ok {
		return nil, btcjson.ErrRPCMethodNotFound
	}
	return handler(s, cmd.cmd, closeChan)
}

// jsonRPCRead handles reading and responding to RPC messages.
func (s *rpcServer) jsonRPCRead(w http.ResponseWriter, r *http.Request) {
	if atomic.LoadInt32(&s.shutdown) != 0 {
		return
	}

	// Read and close the JSON-RPC request body from the caller.
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	r.Body.Close()
	if err != nil {
		errCode := http.StatusBadRequest
		http.Error(w, fmt.Sprintf("%d error reading JSON message: %v",
			errCode, err), errCode)
		return
	}

	reply := s.processRequest(r.Context(), body)
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(reply); err != nil {
		rpcsLog.Errorf("Failed to write marshalled reply: %v", err)
	}
}

// handleWebsocket serves JSON-RPC requests over a websocket, one reply per
// text message.
func (s *rpcServer) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	if !s.limitClients(w, r.RemoteAddr, &s.numWebsockets, s.cfg.MaxWebsockets) {
		return
	}
	defer atomic.AddInt32(&s.numWebsockets, -1)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		var handshakeErr websocket.HandshakeError
		if !errors.As(err, &handshakeErr) {
			rpcsLog.Errorf("Unexpected websocket error: %v", err)
		}
		return
	}
	conn.SetReadLimit(maxRequestSize)
	rpcsLog.Infof("New websocket client %s", r.RemoteAddr)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-s.quit:
			conn.Close()
		case <-done:
		}
	}()
	defer conn.Close()

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure,
				websocket.CloseGoingAway) {

				rpcsLog.Debugf("Websocket client %s: %v", r.RemoteAddr, err)
			}
			rpcsLog.Infof("Disconnected websocket client %s", r.RemoteAddr)
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		reply := s.processRequest(r.Context(), msg)
		if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
			rpcsLog.Debugf("Websocket client %s: %v", r.RemoteAddr, err)
			return
		}
	}
}

// handler returns the HTTP handler serving POST requests on / and
// websockets on /ws.
func (s *rpcServer) handler() http.Handler {
	rpcServeMux := http.NewServeMux()
	rpcServeMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Connection", "close")
		r.Close = true

		// Limit the number of connections to max allowed.
		if !s.limitClients(w, r.RemoteAddr, &s.numClients, s.cfg.MaxClients) {
			return
		}
		defer atomic.AddInt32(&s.numClients, -1)

		if err := s.checkAuth(r); err != nil {
			jsonAuthFail(w)
			return
		}

		// Read and respond to the request.
		s.jsonRPCRead(w, r)
	})
	rpcServeMux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if err := s.checkAuth(r); err != nil {
			jsonAuthFail(w)
			return
		}
		s.handleWebsocket(w, r)
	})
	return rpcServeMux
}

// Run starts the RPC server on every configured listener and serves until
// ctx is done, then shuts the server down.
func (s *rpcServer) Run(ctx context.Context) {
	if atomic.AddInt32(&s.started, 1) != 1 {
		return
	}

	rpcsLog.Trace("Starting RPC server")
	httpServer := &http.Server{
		Handler: s.handler(),

		// Timeout connections which don't complete the initial
		// handshake within the allowed timeframe.
		ReadHeaderTimeout: time.Second * rpcAuthTimeoutSeconds,
	}
	for _, listener := range s.cfg.Listeners {
		s.wg.Add(1)
		go func(listener net.Listener) {
			rpcsLog.Infof("RPC server listening on %s", listener.Addr())
			err := httpServer.Serve(listener)
			if !errors.Is(err, http.ErrServerClosed) {
				rpcsLog.Errorf("RPC listener %s: %v", listener.Addr(), err)
			}
			rpcsLog.Tracef("RPC listener done for %s", listener.Addr())
			s.wg.Done()
		}(listener)
	}

	<-ctx.Done()
	s.stop(httpServer)
}

// stop shuts down the RPC server, waiting up to shutdownTimeout for
// in-flight requests.
func (s *rpcServer) stop(httpServer *http.Server) {
	if atomic.AddInt32(&s.shutdown, 1) != 1 {
		rpcsLog.Infof("RPC server is already in the process of shutting down")
		return
	}
	rpcsLog.Warnf("RPC server shutting down")
	close(s.quit)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		rpcsLog.Errorf("Problem shutting down rpc: %v", err)
	}
	s.wg.Wait()
	rpcsLog.Infof("RPC server shutdown complete")
}

// RequestedProcessShutdown returns a channel that is sent to when an
// authorized RPC client requests the process to shutdown.  If the request
// can not be read immediately, it is dropped.
func (s *rpcServer) RequestedProcessShutdown() <-chan struct{} {
	return s.requestProcessShutdown
}

// genCertPair generates a key/cert pair to the paths provided.
func genCertPair(certFile, keyFile string) error {
	rpcsLog.Infof("Generating TLS certificates...")

	org := "halsimd autogenerated cert"
	validUntil := time.Now().Add(10 * 365 * 24 * time.Hour)
	cert, key, err := btcutil.NewTLSCertPair(org, validUntil, nil)
	if err != nil {
		return err
	}

	// Write cert and key files.
	if err = os.WriteFile(certFile, cert, 0666); err != nil {
		return err
	}
	if err = os.WriteFile(keyFile, key, 0600); err != nil {
		os.Remove(certFile)
		return err
	}

	rpcsLog.Infof("Done generating TLS certificates")
	return nil
}

// newRPCServer returns a new instance of the rpcServer struct.
func newRPCServer(config *rpcserverConfig) (*rpcServer, error) {
	if config.Handler == nil {
		return nil, errors.New("rpc server requires a handler")
	}
	maxReqs := config.MaxConcurrentReqs
	if maxReqs < 1 {
		maxReqs = 1
	}
	rpc := rpcServer{
		cfg:                    *config,
		requestSem:             make(chan struct{}, maxReqs),
		metrics:                newRPCMetrics(),
		helpCacher:             newHelpCacher(),
		requestProcessShutdown: make(chan struct{}),
		quit:                   make(chan int),
	}
	if config.RPCUser != "" || config.RPCPass != "" {
		login := config.RPCUser + ":" + config.RPCPass
		auth := "Basic " + base64.StdEncoding.EncodeToString([]byte(login))
		rpc.authsha = sha256.Sum256([]byte(auth))
		rpc.authRequired = true
	}
	return &rpc, nil
}
