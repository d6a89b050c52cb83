// Package chainrpc is the JSON-RPC side of devchain: the two hardhat
// configuration calls issued once the deployment script reports readiness.
//
//	evm_setAutomine       [true]
//	evm_setIntervalMining [5000]
//
// Callers treat both as fire-and-forget; errors are returned only so they can
// be logged.
package chainrpc
