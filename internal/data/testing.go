package data

import (
	"fmt"
	"os"
	"path/filepath"
)

// Fixture ids written by WriteTestSource.
const (
	TestGunID            = "lightmg"
	TestMissileID        = "harpoon"
	TestBurstBeamID      = "tachyonlance"
	TestContinuousBeamID = "gravitonbeam"
	TestShipID           = "dominator"
)

const testWeaponCSV = `name,id,tier,rarity,base value,range,damage/second,damage/shot,emp,impact,turn rate,OPs,ammo,ammo/sec,reload size,type,energy/shot,energy/second,chargeup,chargedown,burst size,burst delay,min spread,max spread,spread/shot,spread decay/sec,beam speed,proj speed,launch speed,flight time,proj hitpoints,autofireAccBonus,extraArcForAI,hints,tags,groupTag,tech/manufacturer,for weapon tooltip>>,primaryRoleStr,speedStr,trackingStr,turnRateStr,accuracyStr,customPrimary,customPrimaryHL,customAncillary,customAncillaryHL,noDPSInTooltip,number
Light Machine Gun,lightmg,0,,200,500,,50,0,0,60,4,,,,FRAGMENTATION,0,,0,0.1,1,0,0,10,2,10,,700,,,,,,,"PD, ANTI_FTR",,Low Tech,,Point Defense,,,,,,,,,,
Harpoon MRM,harpoon,1,,500,1500,,750,0,0,,5,4,,,HIGH_EXPLOSIVE,,,0,1,1,0,,,,,,500,,,200,,,,,,Low Tech,,Strike,,,,,,,,,,
Tachyon Lance,tachyonlance,3,,4000,1000,1125,1000,1000,0,25,24,,,,ENERGY,,,0.5,0.5,1,9,,,,,1000,,,,,,,,,,High Tech,,Anti-Ship,,,,,,,,,TRUE,
Graviton Beam,gravitonbeam,1,,1200,1000,200,,0,0,20,10,,,,KINETIC,,200,0,0,,,,,,,10000,,,,,,,,,,High Tech,,Support,,,,,,,,,,
,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,
`

const testShipCSV = `name,id,designation,tech/manufacturer,system id,fleet pts,hitpoints,armor rating,max flux,8/6/5/4%,flux dissipation,ordnance points,fighter bays,max speed,acceleration,deceleration,max turn rate,turn acceleration,mass,shield type,defense id,shield arc,shield upkeep,shield efficiency
Dominator,dominator,Cruiser,Low Tech,,14,14000,1500,10000,,500,175,0,50,30,25,10,5,1700,FRONT,,120,0.4,1
`

var testWeaponFiles = map[string]string{
	TestGunID: `{
	"id":"lightmg",  # Light Machine Gun
	"specClass":"projectile",
	"type":"BALLISTIC",
	"size":"SMALL",
}`,
	TestMissileID: `{
	"id":"harpoon",
	"specClass":"missile",
	"type":"MISSILE",
}`,
	TestBurstBeamID: `{
	"id":"tachyonlance",
	"specClass":"beam",
	"type":"ENERGY", # "type":"BALLISTIC" in an old version
}`,
	TestContinuousBeamID: `{
	"id":"gravitonbeam",
	"specClass":"beam",
	"type":"ENERGY",
}`,
}

const testShipFile = `{
	"hullName":"Dominator",
	"hullId":"dominator",
	"hullSize":"CRUISER",
	# sprite size in pixels
	"height":220,
	"width":180,
	"center":[90, 110,],
	"viewOffset":0,
}`

// WriteTestSource creates a small data directory (weapons/ and hulls/) under
// dir for loader and CLI tests of other packages.
func WriteTestSource(dir string) error {
	weapons := filepath.Join(dir, weaponsDir)
	hulls := filepath.Join(dir, hullsDir)
	for _, d := range []string{weapons, hulls} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}

	files := map[string]string{
		filepath.Join(weapons, weaponCSVFile):        testWeaponCSV,
		filepath.Join(hulls, shipCSVFile):            testShipCSV,
		filepath.Join(hulls, TestShipID+shipFileExt): testShipFile,
	}
	for id, body := range testWeaponFiles {
		files[filepath.Join(weapons, id+weaponFileExt)] = body
	}
	for path, body := range files {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// WriteTestMod creates a mod directory <modsDir>/<name> whose data/ is
// filled by WriteTestSource, and returns its path.
func WriteTestMod(modsDir, name string) (string, error) {
	dir := filepath.Join(modsDir, name)
	if err := WriteTestSource(filepath.Join(dir, modDataDir)); err != nil {
		return "", err
	}
	return dir, nil
}
