package extract

import "Certus/internal/loads"

// DemoDataset is a deterministic synthetic dataset matching the built-in
// demonstration mapping, used when no extraction file has been uploaded.
// Load case 4 intentionally exceeds the skin panel shear allowable so demo
// reports show a FAIL row.
func DemoDataset() *Dataset {
	return &Dataset{
		Shells: map[int]map[int]loads.Record{
			12090: {
				1: loads.PanelRecord(42.5, 12.1, 61.0),
				2: loads.PanelRecord(-85.3, 9.8, 104.2),
				3: loads.PanelRecord(31.0, 4.4, 22.7),
				4: loads.PanelRecord(-120.6, 18.3, 188.9),
				5: loads.MarkerRecord("Load Case missing"),
			},
		},
		GridPoints: map[int]map[int]loads.Record{
			2710102: {
				1: loads.JointRecord(12400, 8300, 2100, 0, 0, 0),
				2: loads.JointRecord(-26800, 14200, 5600, 0, 0, 0),
				3: loads.JointRecord(9100, -3800, 1200, 0, 0, 0),
				4: loads.JointRecord(-33100, 21500, 8400, 0, 0, 0),
				5: loads.MarkerRecord("Load Case missing"),
			},
		},
	}
}
