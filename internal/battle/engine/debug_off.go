//go:build !skirmishdebug

package engine

const debugInvariants = false
