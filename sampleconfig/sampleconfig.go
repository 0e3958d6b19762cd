// Copyright (c) 2017 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sampleconfig

// FileContents is a string containing the commented example config for
// halsimd.
const FileContents = `[Application Options]

; ------------------------------------------------------------------------------
; Network settings
; ------------------------------------------------------------------------------

; Network used for addresses when a request does not name one.  One of liquid,
; liquidtestnet or elementsregtest.
; network=liquidtestnet

; Genesis hash committed to by sighashes when a request does not give one.
; Either a preset name (webide, bitcoin) or 64 hex characters in the same byte
; order block explorers display.
; genesis=webide


; ------------------------------------------------------------------------------
; Simplicity engine
; ------------------------------------------------------------------------------

; Name of the registered Simplicity engine.  When only one engine is compiled
; in, it is used without being named.  Without an engine the program
; operations (simplicity_info, simplicity_sighash, pset_finalize, pset_run)
; return an error.
; engine=


; ------------------------------------------------------------------------------
; RPC server options - The following options control the RPC server
; ------------------------------------------------------------------------------

; Secure the RPC API by specifying the username and password.  Both must be
; set, or neither to disable authentication.
; rpcuser=whatever_username_you_want
; rpcpass=

; Specify the interfaces for the RPC server listen on.  One listen address per
; line.  NOTE: The default port is 28579.  All interfaces on the default port
; are only allowed with TLS enabled.
;   rpclisten=                ; all interfaces on default port
;   rpclisten=0.0.0.0         ; all ipv4 interfaces on default port
;   rpclisten=127.0.0.1:8337  ; only ipv4 localhost on port 8337
; rpclisten=localhost

; TLS is disabled by default, which is only allowed for localhost listeners.
; Enable it with tls=1.  The certificate and key are generated on first start
; when both files are missing.
; tls=1
; rpccert=~/.halsimd/rpc.cert
; rpckey=~/.halsimd/rpc.key

; Specify the maximum number of concurrent RPC clients for standard
; connections, websocket connections and requests executing at once.
; rpcmaxclients=10
; rpcmaxwebsockets=25
; rpcmaxconcurrentreqs=20

; Serve Prometheus metrics on this interface and port.
; metricslisten=localhost:28580


; ------------------------------------------------------------------------------
; Debug
; ------------------------------------------------------------------------------

; Debug logging level.
; Valid levels are {trace, debug, info, warn, error, critical}
; You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set
; log level for individual subsystems.  Use halsimd --debuglevel=show to list
; available subsystems.
; debuglevel=info

; The port used to listen for HTTP profile requests.  The profile server will
; be disabled if this option is not specified.  The profile information can be
; accessed at http://localhost:<profileport>/debug/pprof once running.
; profile=6061
`
