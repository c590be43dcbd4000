// Package supply holds the Supply Index, a pure projection of world
// inventories that planning rebuilds before every attempt and reserves
// against. It keeps no state worth persisting.
package supply
