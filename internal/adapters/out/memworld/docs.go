// Package memworld is an in-memory game world for the transport core: buildings
// with inventories, cities, roads and the player's balance. The server runs on
// it, and the coordinator tests use it as their fixture.
package memworld
