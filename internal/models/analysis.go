package models

// CourseNode is one course in the curriculum graph
type CourseNode struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Credits int      `json:"credits"`
	Prereqs []string `json:"prereqs"`
}

// CourseGraph is the full curriculum dependency graph
type CourseGraph struct {
	Nodes []CourseNode        `json:"nodes"`
	Edges []map[string]string `json:"edges"`
}

// CreditsBreakdown totals credits across the requested semesters
type CreditsBreakdown struct {
	TotalCredits int            `json:"total_credits"`
	Breakdown    map[string]int `json:"breakdown"`
}

// PrerequisiteCheck reports a course and any prerequisites not yet satisfied
type PrerequisiteCheck struct {
	Course         CourseNode `json:"course"`
	MissingPrereqs []string   `json:"missing_prereqs"`
}

// Specialization is a specialization roadmap
type Specialization struct {
	Specialization string   `json:"specialization"`
	Title          string   `json:"title"`
	CoreCourses    []string `json:"core_courses"`
	Recommended    []string `json:"recommended"`
	Projects       []string `json:"projects"`
}

// ExamTips holds exam preparation suggestions for a focus area
type ExamTips struct {
	Focus       string   `json:"focus"`
	Suggestions []string `json:"suggestions"`
}

// CareerPaths maps completed courses to matching career paths
type CareerPaths struct {
	MatchingPaths []map[string]interface{} `json:"matching_paths"`
}
