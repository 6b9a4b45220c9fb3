// Package knowledge is the read-only reference data the engine answers
// from: courses with their lecturers and materials, institutional facts,
// and the guidance texts used by the advice strategies.
//
// Data is loaded once (from the embedded default file or from a YAML file on
// disk), validated against a JSON Schema, and never written afterwards.
package knowledge

// Document is the on-disk shape of a knowledge file.
type Document struct {
	Version     int                         `yaml:"version"`
	Institution Institution                 `yaml:"institution"`
	Courses     []Course                    `yaml:"courses"`
	Guidance    map[string]map[string]Guide `yaml:"guidance"`
	FAQ         []QA                        `yaml:"faq"`
}

// Institution carries the university-level facts.
type Institution struct {
	Name          string     `yaml:"name"`
	ShortName     string     `yaml:"short_name"`
	Established   string     `yaml:"established"`
	Location      string     `yaml:"location"`
	Motto         string     `yaml:"motto"`
	Type          string     `yaml:"type"`
	Accreditation string     `yaml:"accreditation"`
	Website       string     `yaml:"website"`
	Email         string     `yaml:"email"`
	Phone         string     `yaml:"phone"`
	Address       string     `yaml:"address"`
	Schools       []string   `yaml:"schools"`
	SICT          School     `yaml:"sict"`
	Admission     Admission  `yaml:"admission"`
	Facilities    Facilities `yaml:"facilities"`
}

type School struct {
	Name        string   `yaml:"name"`
	Departments []string `yaml:"departments"`
	Programs    []string `yaml:"programs"`
	Facilities  []string `yaml:"facilities"`
}

type Admission struct {
	UTME        string   `yaml:"utme"`
	OLevel      string   `yaml:"olevel"`
	Subjects    string   `yaml:"subjects"`
	DirectEntry string   `yaml:"direct_entry"`
	CutOffMark  string   `yaml:"cut_off_mark"`
	Process     []string `yaml:"process"`
	Dates       []string `yaml:"dates"`
}

type Facilities struct {
	Academic []string `yaml:"academic"`
	Student  []string `yaml:"student"`
}

// Course is one entry of the course catalogue.
type Course struct {
	Code          string   `yaml:"code"`
	Title         string   `yaml:"title"`
	Level         int      `yaml:"level"`
	Semester      int      `yaml:"semester"`
	Credits       int      `yaml:"credits"`
	Prerequisites []string `yaml:"prerequisites"`
	Description   string   `yaml:"description"`
	Lecturers     []string `yaml:"lecturers"`
	Materials     []string `yaml:"materials"`
	SuccessTips   []string `yaml:"success_tips"`
	Assessment    string   `yaml:"assessment"`
	OfficeHours   string   `yaml:"office_hours"`
	Practical     string   `yaml:"practical"`
	Aliases       []string `yaml:"aliases"`
	Subjects      []string `yaml:"subjects"`
	Notes         *Notes   `yaml:"notes"`
	PastQuestions []QA     `yaml:"past_questions"`
}

// Notes describes the lecture notes available for a course.
type Notes struct {
	Title       string   `yaml:"title"`
	Files       []string `yaml:"files"`
	Topics      []string `yaml:"topics"`
	KeyConcepts []string `yaml:"key_concepts"`
}

// QA is a question with a worked answer: a past exam question or an FAQ.
type QA struct {
	Question   string `yaml:"question"`
	Answer     string `yaml:"answer"`
	Difficulty string `yaml:"difficulty"`
	Topic      string `yaml:"topic"`
}

// Guide is a titled list of bulleted sections.
type Guide struct {
	Title    string    `yaml:"title"`
	Sections []Section `yaml:"sections"`
}

type Section struct {
	Heading string   `yaml:"heading"`
	Items   []string `yaml:"items"`
}

// Store is the read-only lookup surface the engine consumes.
type Store interface {
	// GetCourse returns the course with the given code (case-insensitive).
	GetCourse(code string) (Course, bool)
	// ListCourses returns courses of one level, or all courses for level 0,
	// ordered by level then code.
	ListCourses(level int) []Course
	// GetInstitutionalFact returns a rendered fact for a topic such as
	// "general", "admission", "facilities", "departments" or "contact".
	GetInstitutionalFact(topic string) (string, bool)
	// Guide returns the guidance text for a section ("cs_guidance",
	// "materials", "success_tips") and topic.
	Guide(section, topic string) (Guide, bool)
	// CoursesByLecturer returns the courses a lecturer is listed on.
	CoursesByLecturer(name string) []Course
	// CoursesBySubject returns the courses tagged with a subject.
	CoursesBySubject(subject string) []Course
	// FAQ returns the general questions and answers.
	FAQ() []QA
	// Institution returns the university-level facts.
	Institution() Institution
}
