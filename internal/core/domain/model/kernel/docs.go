// Package kernel holds the value objects shared by every logistics model:
// UUID keys, world Positions, ResourceID and OrderID identifiers, and the
// EntityRef tagged union that jobs, carriers and supply records use to point
// at buildings and cities without owning them.
package kernel
