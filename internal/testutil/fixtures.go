package testutil

import "github.com/udisondev/statsector/internal/model"

// Record fixtures shared by package tests. Each call returns a fresh copy.

// DominatorRecord is a cruiser: 22px armor cells, 8 cells wide.
func DominatorRecord() model.Record {
	return model.Record{
		"id":               "dominator",
		"name":             "Dominator",
		"hitpoints":        14000,
		"armor rating":     1500,
		"max flux":         10000,
		"flux dissipation": 500,
		"height":           220.0,
		"width":            180.0,
	}
}

// WolfRecord is a frigate: 15px armor cells, 4 cells wide.
func WolfRecord() model.Record {
	return model.Record{
		"id":               "wolf",
		"name":             "Wolf",
		"hitpoints":        1600,
		"armor rating":     200,
		"max flux":         2500,
		"flux dissipation": 200,
		"height":           70.0,
		"width":            60.0,
	}
}

// GunRecord is a ballistic projectile weapon with a magazine and regen.
func GunRecord() model.Record {
	return model.Record{
		"id":          "testgun",
		"name":        "Test Gun",
		"specClass":   "projectile",
		"type":        "BALLISTIC",
		"damage type": "KINETIC",
		"damage/shot": 100.0,
		"chargeup":    0.0,
		"chargedown":  0.1,
		"burst size":  1.0,
		"burst delay": 0.0,
		"ammo":        10,
		"ammo/sec":    1.0,
		"reload size": 1,
		"proj speed":  500.0,
	}
}

// BeamRecord is a continuous energy beam.
func BeamRecord() model.Record {
	return model.Record{
		"id":            "testbeam",
		"name":          "Test Beam",
		"specClass":     "beam",
		"type":          "ENERGY",
		"damage type":   "ENERGY",
		"damage/second": 300.0,
		"chargeup":      0.0,
		"chargedown":    0.0,
		"beam speed":    10000.0,
	}
}
