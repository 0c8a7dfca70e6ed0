package cluster

import (
	"gonum.org/v1/gonum/stat"

	"github.com/brdata/municipio-cli/internal/model"
)

// Profiles aggregates one ClusterProfile per ordered group id 0..k-1 from
// the final assignments and the original indicator values. Every group id
// gets a row even when empty, so downstream consumers never have to handle a
// missing key; an empty group reports zero count and nil aggregates.
func Profiles(ms []model.Municipality, assignments []model.ClusterAssignment, labelTable []string) []model.ClusterProfile {
	k := len(labelTable)

	type member struct {
		hdi, hdiEdu, hdiInc, vuln, gini, income []float64
		population                              int64
	}
	groups := make([]member, k)

	for i, a := range assignments {
		m := ms[i]
		g := &groups[a.OrderedGroupID]
		g.hdi = append(g.hdi, m.HDI)
		g.hdiEdu = append(g.hdiEdu, m.HDIEducation)
		g.hdiInc = append(g.hdiInc, m.HDIIncome)
		g.vuln = append(g.vuln, m.VulnerabilityIndex)
		g.gini = append(g.gini, m.Gini)
		g.income = append(g.income, m.IncomePerCapita)
		g.population += m.Population
	}

	profiles := make([]model.ClusterProfile, k)
	for id := 0; id < k; id++ {
		g := groups[id]
		p := model.ClusterProfile{
			OrderedGroupID:  id,
			Label:           labelTable[id],
			Count:           len(g.hdi),
			TotalPopulation: g.population,
		}
		if p.Count > 0 {
			p.HDI = summarize(g.hdi)
			p.HDIEducation = summarize(g.hdiEdu)
			p.HDIIncome = summarize(g.hdiInc)
			p.Vulnerability = summarize(g.vuln)
			p.Gini = summarize(g.gini)
			p.IncomePerCapita = summarize(g.income)
		}
		profiles[id] = p
	}
	return profiles
}

func summarize(values []float64) *model.Stats {
	s := &model.Stats{
		Mean: stat.Mean(values, nil),
		Min:  values[0],
		Max:  values[0],
	}
	if len(values) > 1 {
		s.Std = stat.StdDev(values, nil)
	}
	for _, v := range values[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	return s
}
