package model

var packageColors = []string{
	"#dc2626", "#1d4ed8", "#059669", "#7c2d12", "#6366f1", "#ea580c",
	"#0891b2", "#7c3aed", "#ca8a04", "#166534", "#ec4899", "#0f172a",
	"#b91c1c", "#1e40af", "#047857", "#92400e", "#4338ca", "#c2410c",
	"#0e7490", "#6d28d9", "#a16207", "#15803d", "#be185d",
}

// Adjacent indexes map to distant hues.
var colorSequence = []int{0, 8, 4, 12, 2, 10, 6, 14, 1, 9, 5, 13, 3, 11, 7, 15, 16, 17, 18, 19, 20, 21, 22}

// PackageColor returns the palette colour for the package at index i.
func PackageColor(i int) string {
	if i < 0 {
		i = -i
	}
	return packageColors[colorSequence[i%len(colorSequence)]]
}

// DefaultLearningCurve is used when a project omits the learning curve.
func DefaultLearningCurve() LearningCurve {
	return LearningCurve{
		RhythmReducer:       0.60,
		Increment:           0.20,
		PeriodWeeks:         4,
		DurationMultiplier:  2.00,
		DurationImpactWeeks: 6,
	}
}

// DefaultProject returns the reference 300-house scenario.
func DefaultProject() ProjectData {
	type pkg struct {
		name    string
		rhythm  int
		latency int
		cost    float64
	}
	defs := []pkg{
		{"Pré-Obra", 10, 4, 10640525.91},
		{"Estacas", 12, 0, 2579700.90},
		{"Infraestrutura Enterrada", 12, 0, 6865387.49},
		{"Radier + Deck", 12, 4, 9781629.31},
		{"Muro de Divisa + Conformação do terreno", 10, 0, 6122539.94},
		{"Alvenaria Inferior", 10, 0, 12260487.14},
		{"Laje Inferior", 10, 0, 11737434.02},
		{"Alvenaria Superior", 10, 0, 10917252.56},
		{"Laje Superior", 10, 0, 6997122.67},
		{"Talisca + Alvenaria do Barrilete", 10, 0, 7681311.25},
		{"Instalações de Prumadas", 10, 4, 9814241.82},
		{"Contrapiso", 10, 0, 4979397.31},
		{"Reboco", 10, 0, 15367388.04},
		{"Rampas e Calçadas + revestimento de fachada + Instalações externas", 10, 0, 9565074.83},
		{"Cobertura", 10, 0, 7932952.69},
		{"Gesso Interno + Paisagismo", 10, 4, 8468037.81},
		{"Massa PVA + Instalação de Módulos", 10, 0, 4450403.21},
		{"Revestimento Cerâmico + Bancadas", 10, 0, 19579358.85},
		{"Esquadria de alumínio", 10, 0, 10168027.26},
		{"Pintura Final", 10, 4, 12057469.21},
		{"Acabamentos Finais", 10, 0, 4795404.39},
		{"Esquadrias de Madeira", 10, 0, 4314479.27},
		{"Vistoria", 10, 0, 0},
	}
	pkgs := make([]WorkPackage, len(defs))
	for i, d := range defs {
		pkgs[i] = WorkPackage{
			Name:     d.name,
			Duration: 1,
			Rhythm:   d.rhythm,
			Latency:  d.latency,
			Cost:     d.cost,
			Color:    PackageColor(i),
		}
	}
	return ProjectData{
		HousesCount:  300,
		StartDate:    "2026-04-06",
		WorkPackages: pkgs,
		StopPeriods: []StopPeriod{
			{Month: "dezembro", Description: "Parada de final de ano/recesso natalino"},
		},
		PartialReductionPeriods: []PartialReductionPeriod{
			{Month: "janeiro", Coefficient: 0.5, Description: "Retorno gradual pós-feriados"},
			{Month: "fevereiro", Coefficient: 0.5, Description: "Continuação do período de baixa produtividade"},
			{Month: "março", Coefficient: 0.5, Description: "Normalização gradual da produtividade"},
		},
		LearningCurve: DefaultLearningCurve(),
	}
}
