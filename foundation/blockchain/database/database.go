// Package database handles the lower level support for the blocks and
// transactions recorded in the ledger, including the proof of work that
// gates the creation of a new block.
//
// Blocks are held in memory only. Nothing in this package touches disk.
package database
