package dashboard

// MockLessons is the built-in lesson list shown when no server can be
// reached.
func MockLessons() []LessonSummary {
	rows := []LessonSummary{
		{ID: "basic-arithmetic", Title: "Basic Arithmetic", Description: "Master addition and subtraction with single-digit numbers", Category: "Arithmetic", Progress: Completed, Score: 90, ExpEarned: 230},
		{ID: "multiplication-mastery", Title: "Multiplication Mastery", Description: "Learn multiplication tables from 1 to 12", Category: "Multiplication", Progress: InProgress},
		{ID: "division-basics", Title: "Division Basics", Description: "Introduction to division concepts", Category: "Division", Progress: NotStarted},
		{ID: "mixed-practice", Title: "Mixed Practice", Description: "Practice all four operations together", Category: "Mixed", Progress: NotStarted},
	}
	for i := range rows {
		rows[i] = rows[i].WithDisplayCounts()
	}
	return rows
}
