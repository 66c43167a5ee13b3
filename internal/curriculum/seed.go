package curriculum

// seedAreas is the built-in curriculum used when no external curriculum file
// is provided. It covers elementary math and science with a realistic
// prerequisite structure.
var seedAreas = []Area{
	// Math, grade 3-5 progression.
	{
		ID: "math-counting", Subject: "Math", Topic: "Counting & Place Value",
		GradeLevel: 3, DifficultyOrder: 1,
		Description:        "Reading, writing and comparing whole numbers up to 10,000.",
		LearningObjectives: []string{"Read and write 4-digit numbers", "Compare numbers using < and >"},
	},
	{
		ID: "math-addition", Subject: "Math", Topic: "Addition", Subtopic: "Multi-digit",
		GradeLevel: 3, DifficultyOrder: 2,
		Prerequisites: []string{"math-counting"},
		Description:   "Column addition with carrying for numbers up to four digits.",
	},
	{
		ID: "math-subtraction", Subject: "Math", Topic: "Subtraction", Subtopic: "Multi-digit",
		GradeLevel: 3, DifficultyOrder: 2,
		Prerequisites: []string{"math-counting"},
		Description:   "Column subtraction with borrowing for numbers up to four digits.",
	},
	{
		ID: "math-multiplication", Subject: "Math", Topic: "Multiplication",
		GradeLevel: 4, DifficultyOrder: 3,
		Prerequisites: []string{"math-addition"},
		Description:   "Times tables to 12 and multiplying 2-digit by 1-digit numbers.",
	},
	{
		ID: "math-division", Subject: "Math", Topic: "Division",
		GradeLevel: 4, DifficultyOrder: 4,
		Prerequisites: []string{"math-multiplication", "math-subtraction"},
		Description:   "Short division with and without remainders.",
	},
	{
		ID: "math-fractions", Subject: "Math", Topic: "Fractions", Subtopic: "Basics",
		GradeLevel: 4, DifficultyOrder: 5,
		Prerequisites: []string{"math-division"},
		Description:   "Recognising, comparing and simplifying simple fractions.",
	},
	{
		ID: "math-decimals", Subject: "Math", Topic: "Decimals",
		GradeLevel: 5, DifficultyOrder: 6,
		Prerequisites: []string{"math-fractions"},
		Description:   "Decimal notation to two places and conversion to fractions.",
	},

	// Science, lighter prerequisite structure.
	{
		ID: "sci-living-things", Subject: "Science", Topic: "Living Things",
		GradeLevel: 3, DifficultyOrder: 1,
		Description: "Classifying plants and animals; basic needs of living things.",
	},
	{
		ID: "sci-habitats", Subject: "Science", Topic: "Habitats",
		GradeLevel: 3, DifficultyOrder: 2,
		Prerequisites: []string{"sci-living-things"},
		Description:   "How habitats provide for the needs of plants and animals.",
	},
	{
		ID: "sci-states-matter", Subject: "Science", Topic: "States of Matter",
		GradeLevel: 4, DifficultyOrder: 3,
		Description: "Solids, liquids and gases; changes of state.",
	},
	{
		ID: "sci-food-chains", Subject: "Science", Topic: "Food Chains",
		GradeLevel: 4, DifficultyOrder: 4,
		Prerequisites: []string{"sci-habitats"},
		Description:   "Producers, consumers and predators in simple food chains.",
	},
}

// Seed returns the built-in curriculum graph.
// The seed data is validated at startup; a malformed seed is a programming
// error, hence the panic.
func Seed() *Graph {
	g, err := New(seedAreas)
	if err != nil {
		panic("invalid seed curriculum: " + err.Error())
	}
	return g
}
