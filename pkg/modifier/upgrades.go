package modifier

// Target names a permanent modifier an upgrade can change.
type Target string

const (
	TargetEventTime         Target = "event_time"
	TargetMissionTime       Target = "mission_time"
	TargetStress            Target = "stress"
	TargetCost              Target = "cost"
	TargetReward            Target = "reward"
	TargetActiveEventStress Target = "active_event_stress"
)

// Op is how an effect combines with the running value.
type Op string

const (
	OpMultiply Op = "multiply"
	OpAdd      Op = "add"
)

// Effect is one declarative change applied by an upgrade.
type Effect struct {
	Target Target  `json:"target" yaml:"target"`
	Op     Op      `json:"op" yaml:"op"`
	Value  float64 `json:"value" yaml:"value"`
}

// Upgrade is a purchasable career perk.
type Upgrade struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Cost    int      `json:"cost" yaml:"cost"`
	Effects []Effect `json:"effects" yaml:"effects"`
}

// Catalog indexes upgrades by id.
type Catalog map[string]Upgrade

// IDs returns every upgrade id in the catalog.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	return ids
}

// Permanent holds the resolved career multipliers. The neutral value is 1.
type Permanent struct {
	EventTime         float64 `json:"eventTime"`
	MissionTime       float64 `json:"missionTime"`
	Stress            float64 `json:"stress"`
	Cost              float64 `json:"cost"`
	Reward            float64 `json:"reward"`
	ActiveEventStress float64 `json:"activeEventStress"`
}

// Neutral returns modifiers that change nothing.
func Neutral() Permanent {
	return Permanent{
		EventTime:         1,
		MissionTime:       1,
		Stress:            1,
		Cost:              1,
		Reward:            1,
		ActiveEventStress: 1,
	}
}

// DefaultCatalog is the shipped upgrade table.
func DefaultCatalog() Catalog {
	upgrades := []Upgrade{
		{ID: "reflexes_1", Name: "Quick Reflexes I", Cost: 3, Effects: []Effect{{TargetEventTime, OpMultiply, 1.10}}},
		{ID: "reflexes_2", Name: "Quick Reflexes II", Cost: 5, Effects: []Effect{{TargetEventTime, OpMultiply, 1.10}}},
		{ID: "negotiator_1", Name: "Negotiator", Cost: 3, Effects: []Effect{{TargetMissionTime, OpMultiply, 1.15}}},
		{ID: "zen_1", Name: "Zen Master I", Cost: 3, Effects: []Effect{{TargetStress, OpMultiply, 0.90}}},
		{ID: "zen_2", Name: "Zen Master II", Cost: 5, Effects: []Effect{{TargetStress, OpMultiply, 0.90}}},
		{ID: "accountant_1", Name: "Creative Accountant", Cost: 4, Effects: []Effect{{TargetCost, OpMultiply, 0.90}}},
		{ID: "sponsor_1", Name: "Sponsor Network I", Cost: 4, Effects: []Effect{{TargetReward, OpMultiply, 1.15}}},
		{ID: "sponsor_2", Name: "Sponsor Network II", Cost: 6, Effects: []Effect{{TargetReward, OpMultiply, 1.10}}},
		{ID: "crowd_control_1", Name: "Crowd Control", Cost: 4, Effects: []Effect{{TargetActiveEventStress, OpMultiply, 0.85}}},
	}

	catalog := make(Catalog, len(upgrades))
	for _, u := range upgrades {
		catalog[u.ID] = u
	}
	return catalog
}

// Resolve folds unlocked upgrades into permanent modifiers.
// Unknown ids are ignored and each upgrade applies at most once.
func Resolve(unlocked []string, catalog Catalog) Permanent {
	p := Neutral()
	seen := make(map[string]bool, len(unlocked))

	for _, id := range unlocked {
		if seen[id] {
			continue
		}
		seen[id] = true

		upgrade, ok := catalog[id]
		if !ok {
			continue
		}
		for _, effect := range upgrade.Effects {
			p.apply(effect)
		}
	}
	return p
}

func (p *Permanent) apply(e Effect) {
	field := p.field(e.Target)
	if field == nil {
		return
	}
	switch e.Op {
	case OpAdd:
		*field += e.Value
	default:
		*field *= e.Value
	}
}

func (p *Permanent) field(t Target) *float64 {
	switch t {
	case TargetEventTime:
		return &p.EventTime
	case TargetMissionTime:
		return &p.MissionTime
	case TargetStress:
		return &p.Stress
	case TargetCost:
		return &p.Cost
	case TargetReward:
		return &p.Reward
	case TargetActiveEventStress:
		return &p.ActiveEventStress
	}
	return nil
}
