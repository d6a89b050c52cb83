// Package domain defines the plain types (sources, lines, exits) and the
// contracts (process, launcher, chain client, console) shared across devchain.
// It holds no behaviour beyond small String helpers.
package domain
