package pipeline

// Routes maps every enabled rule of a config to the actions it runs, in the
// order the config lists them.
type Routes struct {
	rules   []string
	actions map[string][]string
}

// RoutesFromConfig collects the routes of cfg's enabled rules.
func RoutesFromConfig(cfg *Config) Routes {
	r := Routes{actions: make(map[string][]string)}
	for _, rc := range cfg.Rules {
		if !rc.Enabled {
			continue
		}
		r.rules = append(r.rules, rc.ID)
		if len(rc.Actions) > 0 {
			r.actions[rc.ID] = append([]string(nil), rc.Actions...)
		}
	}
	return r
}

// Rules returns the enabled rule IDs in config order.
func (r Routes) Rules() []string {
	return r.rules
}

// ActionsFor returns the actions ruleID runs, or nil.
func (r Routes) ActionsFor(ruleID string) []string {
	return r.actions[ruleID]
}

// Silent returns the enabled rules that run no action. They still trigger
// and are counted.
func (r Routes) Silent() []string {
	var out []string
	for _, id := range r.rules {
		if len(r.actions[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Mapping returns a copy of the rule → actions table for NewManager.
func (r Routes) Mapping() map[string][]string {
	m := make(map[string][]string, len(r.actions))
	for id, ids := range r.actions {
		m[id] = append([]string(nil), ids...)
	}
	return m
}
