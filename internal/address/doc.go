// Package address pulls the PublicStaking contract address out of deployment
// output and checks it before it is reused in a later command.
//
// The scraping rule is positional: the token two fields after "Deployed" on a
// "Deployed PublicStaking <addr>, ..." line. Output from a changed hardhat
// task will simply fail to match.
package address
