package data

// columnKind is the value type of one CSV column.
type columnKind uint8

const (
	kindString columnKind = iota
	kindInt
	kindFloat
	kindBool
)

// weaponColumns types the columns of weapon_data.csv.
var weaponColumns = map[string]columnKind{
	"name":                 kindString,
	"id":                   kindString,
	"tier":                 kindInt,
	"rarity":               kindFloat,
	"base value":           kindInt,
	"range":                kindFloat,
	"damage/second":        kindFloat,
	"damage/shot":          kindFloat,
	"emp":                  kindFloat,
	"impact":               kindFloat,
	"turn rate":            kindFloat,
	"OPs":                  kindInt,
	"ammo":                 kindInt,
	"ammo/sec":             kindFloat,
	"reload size":          kindInt,
	"type":                 kindString,
	"energy/shot":          kindFloat,
	"energy/second":        kindFloat,
	"chargeup":             kindFloat,
	"chargedown":           kindFloat,
	"burst size":           kindFloat,
	"burst delay":          kindFloat,
	"min spread":           kindFloat,
	"max spread":           kindFloat,
	"spread/shot":          kindFloat,
	"spread decay/sec":     kindFloat,
	"beam speed":           kindFloat,
	"proj speed":           kindFloat,
	"launch speed":         kindFloat,
	"flight time":          kindFloat,
	"proj hitpoints":       kindInt,
	"autofireAccBonus":     kindFloat,
	"extraArcForAI":        kindFloat,
	"hints":                kindString,
	"tags":                 kindString,
	"groupTag":             kindString,
	"tech/manufacturer":    kindString,
	"for weapon tooltip>>": kindString,
	"primaryRoleStr":       kindString,
	"speedStr":             kindString,
	"trackingStr":          kindString,
	"turnRateStr":          kindString,
	"accuracyStr":          kindString,
	"customPrimary":        kindString,
	"customPrimaryHL":      kindString,
	"customAncillary":      kindString,
	"customAncillaryHL":    kindString,
	"noDPSInTooltip":       kindBool,
	"number":               kindFloat,
}

// shipColumns types the columns of ship_data.csv.
var shipColumns = map[string]columnKind{
	"name":              kindString,
	"id":                kindString,
	"designation":       kindString,
	"tech/manufacturer": kindString,
	"system id":         kindString,
	"fleet pts":         kindInt,
	"hitpoints":         kindInt,
	"armor rating":      kindInt,
	"max flux":          kindInt,
	"8/6/5/4%":          kindFloat,
	"flux dissipation":  kindInt,
	"ordnance points":   kindInt,
	"fighter bays":      kindInt,
	"max speed":         kindFloat,
	"acceleration":      kindFloat,
	"deceleration":      kindFloat,
	"max turn rate":     kindFloat,
	"turn acceleration": kindFloat,
	"mass":              kindInt,
	"shield type":       kindString,
	"defense id":        kindString,
	"shield arc":        kindFloat,
	"shield upkeep":     kindFloat,
	"shield efficiency": kindFloat,
	"phase cost":        kindFloat,
	"phase upkeep":      kindFloat,
	"min crew":          kindInt,
	"max crew":          kindInt,
	"cargo":             kindInt,
	"fuel":              kindInt,
	"fuel/ly":           kindFloat,
	"range":             kindFloat,
	"max burn":          kindInt,
	"base value":        kindInt,
	"cr %/day":          kindFloat,
	"CR to deploy":      kindInt,
	"peak CR sec":       kindFloat,
	"CR loss/sec":       kindFloat,
	"supplies/rec":      kindInt,
	"supplies/mo":       kindFloat,
	"c/s":               kindFloat,
	"c/f":               kindFloat,
	"f/s":               kindFloat,
	"f/f":               kindFloat,
	"crew/s":            kindFloat,
	"crew/f":            kindFloat,
	"hints":             kindString,
	"tags":              kindString,
	"rarity":            kindFloat,
	"breakProb":         kindFloat,
	"minPieces":         kindInt,
	"maxPieces":         kindInt,
	"travel drive":      kindString,
	"number":            kindFloat,
}
