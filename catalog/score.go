package catalog

// Grade buckets a nutrition score.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

// Score is the result of rating one product.
type Score struct {
	Barcode string  `json:"barcode"`
	Points  int     `json:"points"`
	Grade   Grade   `json:"grade"`
	Protein float64 `json:"protein_dm"`
	Fat     float64 `json:"fat_dm"`
	Fiber   float64 `json:"fiber_dm"`
	Ash     float64 `json:"ash_dm"`
}

/*
Rate computes a 0-100 score from fixed ranges.

Nutrients are converted to a dry-matter basis first so wet and dry foods are
comparable. Points:

	protein  >=35: 40  >=28: 32  >=22: 24  >=18: 16  else 8
	fat      12-22: 25  8-12 or 22-30: 15  else 5
	fiber    <=4: 20  <=7: 12  <=10: 6  else 0
	ash      <=8: 15  <=10: 8  else 0

Grades: A >=85, B >=70, C >=55, D >=40, E below.
*/
func Rate(p Product) Score {
	dm := 100 / (100 - p.Moisture)
	s := Score{
		Barcode: p.Barcode,
		Protein: p.Protein * dm,
		Fat:     p.Fat * dm,
		Fiber:   p.Fiber * dm,
		Ash:     p.Ash * dm,
	}

	s.Points = proteinPoints(s.Protein) + fatPoints(s.Fat) + fiberPoints(s.Fiber) + ashPoints(s.Ash)
	s.Grade = gradeFor(s.Points)
	return s
}

func proteinPoints(v float64) int {
	switch {
	case v >= 35:
		return 40
	case v >= 28:
		return 32
	case v >= 22:
		return 24
	case v >= 18:
		return 16
	default:
		return 8
	}
}

func fatPoints(v float64) int {
	switch {
	case v >= 12 && v <= 22:
		return 25
	case v >= 8 && v <= 30:
		return 15
	default:
		return 5
	}
}

func fiberPoints(v float64) int {
	switch {
	case v <= 4:
		return 20
	case v <= 7:
		return 12
	case v <= 10:
		return 6
	default:
		return 0
	}
}

func ashPoints(v float64) int {
	switch {
	case v <= 8:
		return 15
	case v <= 10:
		return 8
	default:
		return 0
	}
}

func gradeFor(points int) Grade {
	switch {
	case points >= 85:
		return GradeA
	case points >= 70:
		return GradeB
	case points >= 55:
		return GradeC
	case points >= 40:
		return GradeD
	default:
		return GradeE
	}
}
