// Package script holds the fixed shell command sequences devchain feeds to
// its child shells and the marker strings it watches for in their output.
//
// Scripts
//
//   - Node       cd into the bridge directory and start `npx hardhat node`
//   - Preamble   written to the deployer as soon as it is spawned
//   - Deploy     legacy token, all contracts, lockup/router, bonus pool, and
//     finally the echo carrying ReadyMarker
//   - Secondary  written to the ALCB shell on spawn; the ALCB command itself
//     is rendered later from the scraped PublicStaking address
package script
