// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
halsimd is a JSON-RPC server for finalizing and running Simplicity programs
in Elements PSETs.

It serves the same operations as the halsim command line tool: creating,
updating, finalizing, running and extracting PSETs, computing Simplicity
signature hashes, decoding programs and transactions, and working with
addresses and keys.  Requests are accepted over HTTP POST and websockets.

Usage:

	halsimd [OPTIONS]

Application Options:

	-V, --version             Display version information and exit
	-C, --configfile=         Path to configuration file
	    --logdir=             Directory to log output
	-d, --debuglevel=         Logging level for all subsystems {trace, debug,
	                          info, warn, error, critical} -- You may also
	                          specify <subsystem>=<level>,<subsystem2>=<level>,...
	                          to set the log level for individual subsystems --
	                          Use show to list available subsystems (info)
	    --rpclisten=          Add an interface/port to listen for RPC
	                          connections (default localhost:28579)
	-u, --rpcuser=            Username for RPC connections
	-P, --rpcpass=            Password for RPC connections
	    --rpccert=            File containing the certificate file
	    --rpckey=             File containing the certificate key
	    --notls               Disable TLS for the RPC server -- only allowed
	                          when listening on localhost (default)
	    --tls                 Enable TLS for the RPC server, overriding notls
	    --rpcmaxclients=      Max number of RPC clients for standard
	                          connections (10)
	    --rpcmaxwebsockets=   Max number of RPC websocket connections (25)
	    --rpcmaxconcurrentreqs= Max number of RPC requests that may be
	                          processed concurrently (20)
	    --metricslisten=      Interface/port to serve Prometheus metrics on
	                          (disabled when empty)
	    --network=            Default network for addresses {liquid,
	                          liquidtestnet, elementsregtest} (liquidtestnet)
	    --genesis=            Default genesis hash for sighash computation:
	                          webide, bitcoin or 64 hex characters (webide)
	    --engine=             Name of the registered Simplicity engine to use
	    --profile=            Enable HTTP profiling on given port -- NOTE port
	                          must be between 1024 and 65536

Help Options:

	-h, --help           Show this help message
*/
package main
