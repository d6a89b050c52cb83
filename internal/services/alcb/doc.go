// Package alcb deploys the ALCB token against a running dev node.
//
// It is the Go counterpart of the bridge's `deployNewALCB` hardhat task: one
// shareholder (the PublicStaking contract) taking 10% with magic transfer
// enabled, a 1 ether mint from the owner, and the owner's balance reported
// before and after.
package alcb
