package lexicon

// Intent phrase sets. The classifier's rule table refers to these by
// variable; keep each list focused on one rule.
var (
	Lecturer = NewSet("lecturer",
		"who teaches", "who is teaching", "who takes", "who lectures", "lecturer", "lecturers",
		"teacher", "teachers", "instructor", "instructors", "tutor", "taught by", "teaches",
	)

	CourseListing = NewSet("course_listing",
		"list of courses", "list courses", "list the courses", "all courses", "what courses",
		"which courses", "courses offered", "courses available", "available courses",
		"course list", "courses do we", "courses for", "course codes", "course outline",
		"what are the courses", "courses in", "curriculum", "show courses", "show me courses",
		"show me the courses", "my courses", "level courses", "level course",
	)

	PastQuestions = NewSet("past_questions",
		"past question", "past questions", "past exam", "past exams", "previous questions",
		"exam questions", "practice questions", "pq", "pqs",
	)

	LectureNotes = NewSet("lecture_notes",
		"lecture notes", "lecture note", "course notes", "handout", "handouts", "pdf", "pdfs",
		"slides", "download", "modules", "course material download",
	)

	Materials = NewSet("materials",
		"materials", "material", "textbook", "textbooks", "books", "book", "resources",
		"software", "laptop", "computer to buy", "what do i need", "requirements for the course",
		"tools", "ide",
	)

	Career = NewSet("career",
		"career", "careers", "job", "jobs", "internship", "internships", "salary",
		"after graduation", "work as", "become a", "programming language", "learn programming",
		"learn to code", "coding", "software engineer", "data science", "cybersecurity",
	)

	StudyTips = NewSet("study_tips",
		"study tips", "tips", "how to pass", "pass", "excel", "succeed", "success",
		"good grades", "first class", "cgpa", "gpa", "study", "studying", "prepare for exams",
		"exam preparation", "failing", "struggling",
	)

	Institutional = NewSet("institutional",
		"fut", "futminna", "fut minna", "university", "federal university of technology",
		"campus", "admission", "admissions", "facilities", "facility", "hostel", "library",
		"sict", "school of ict", "department", "departments", "utme", "jamb", "post utme",
		"cut off", "cut-off", "direct entry", "school fees", "contact", "motto", "founded",
		"established", "vice chancellor", "location",
	)

	Greeting = NewSet("greeting",
		"hi", "hello", "hey", "good morning", "good afternoon", "good evening", "greetings",
	)

	Thanks = NewSet("thanks",
		"thank you", "thanks", "thank u", "appreciate", "grateful",
	)

	Farewell = NewSet("farewell",
		"bye", "goodbye", "good bye", "see you", "farewell", "later",
	)

	SmallTalk = NewSet("small_talk",
		"how are you", "how are you doing", "how do you do", "who are you",
		"tell me about yourself",
	)

	Capabilities = NewSet("capabilities",
		"what can you do", "what do you do", "what are you", "help", "help me",
		"how can you help", "what can i ask",
	)

	// ColloquialStrong markers are distinctive enough that one is decisive.
	ColloquialStrong = NewSet("colloquial_strong",
		"wetin", "how far", "abeg", "wahala", "sabi", "how you dey", "una", "abi", "oya",
		"omo", "no wahala", "e don", "i wan", "make i",
	)

	// ColloquialWeak markers only count when three or more co-occur.
	ColloquialWeak = NewSet("colloquial_weak",
		"dey", "na", "don", "wan", "fit", "sha", "dem", "am", "o",
	)

	Casual = NewSet("casual",
		"yo", "sup", "what's up", "whats up", "wassup", "gonna", "wanna", "gotta",
		"kinda", "sorta", "cool", "awesome", "nice one", "lol", "bro", "dude",
	)

	Formal = NewSet("formal",
		"could you please", "would you kindly", "may i know", "kindly", "kindly provide",
		"i would like to know", "i would like", "would you", "could you", "please",
		"i wish to", "dear",
	)

	Subjects = NewSet("subjects",
		"programming", "python", "physics", "statistics", "calculus", "mathematics", "math",
		"maths", "hardware", "web development", "english", "probability", "culture",
	)

	// OutOfDomain is the boundary blocklist.
	OutOfDomain = NewSet("out_of_domain",
		"cooking", "cook", "recipe", "recipes", "bake", "baking", "cake", "restaurant",
		"restaurants", "food", "travel", "vacation", "holiday trip", "hotel", "hotels",
		"weather", "forecast", "sports", "sport", "football", "basketball", "soccer",
		"premier league", "music", "song", "songs", "movie", "movies", "film", "films",
		"celebrity", "celebrities", "entertainment", "fashion", "shopping", "makeup",
		"beauty", "dating", "girlfriend", "boyfriend", "relationship advice", "love life",
		"politics", "election", "religion", "horoscope", "lottery", "betting",
	)

	// FollowUp holds referential and continuation phrases.
	FollowUp = NewSet("follow_up",
		"what about", "how about", "tell me more", "more details", "more about", "elaborate",
		"what else", "anything else", "that course", "this course", "the course", "and",
		"also", "it", "its", "that", "this", "them", "they", "those", "lecturer",
		"lecturers", "materials", "prerequisites", "assessment",
	)
)

// Topic sets narrow an intent to a sub-topic. Strategies read the topic
// names from the analysis; the order of TopicOrder is the reporting order.
var Topics = map[string]*Set{
	"lecturers":      NewSet("lecturers", "who teaches", "who takes", "lecturer", "lecturers", "teacher", "teaches", "instructor", "taught by", "who"),
	"materials":      NewSet("materials", "materials", "material", "textbook", "textbooks", "resources", "what do i need"),
	"prerequisites":  NewSet("prerequisites", "prerequisite", "prerequisites", "pre-requisite", "before taking", "requirement for"),
	"assessment":     NewSet("assessment", "assessment", "grading", "graded", "exam", "exams", "examination", "continuous assessment", "ca", "marks"),
	"credits":        NewSet("credits", "credit", "credits", "units", "credit units", "unit load"),
	"office_hours":   NewSet("office_hours", "office hours", "office hour", "consultation", "meet the lecturer"),
	"practical":      NewSet("practical", "practical", "practicals", "lab", "labs", "laboratory"),
	"tips":           NewSet("tips", "tips", "pass", "excel", "succeed", "how to study"),
	"lecture_notes":  NewSet("lecture_notes", "lecture notes", "notes", "pdf", "slides", "download", "topics covered", "topics"),
	"past_questions": NewSet("past_questions", "past question", "past questions", "past exam", "exam questions", "practice questions"),
	"software":       NewSet("software", "software", "ide", "editor", "tools", "vs code", "pycharm"),
	"books":          NewSet("books", "book", "books", "textbook", "textbooks", "reading"),
	"laptop":         NewSet("laptop", "laptop", "computer to buy", "pc", "specs", "specification"),
	"career":         NewSet("career", "career", "careers", "job", "jobs", "salary", "industry", "internship"),
	"programming":    NewSet("programming", "programming", "coding", "code", "programming language", "learn to code"),
	"struggling":     NewSet("struggling", "failing", "failed", "struggling", "difficult", "hard", "carryover", "carry over"),
	"admission":      NewSet("admission", "admission", "admissions", "utme", "jamb", "post utme", "cut off", "cut-off", "direct entry", "requirements"),
	"facilities":     NewSet("facilities", "facilities", "facility", "lab", "labs", "laboratory", "library", "hostel"),
	"departments":    NewSet("departments", "department", "departments", "programs", "programmes", "sict", "school of ict"),
	"contact":        NewSet("contact", "contact", "email", "phone", "website", "address"),
	"history":        NewSet("history", "established", "founded", "history", "motto", "location", "where is"),
}

// TopicOrder fixes the iteration order over Topics.
var TopicOrder = []string{
	"lecturers", "materials", "prerequisites", "assessment", "credits", "office_hours",
	"practical", "tips", "lecture_notes", "past_questions", "software", "books", "laptop",
	"career", "programming", "struggling", "admission", "facilities", "departments",
	"contact", "history",
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "was": true, "were": true,
	"you": true, "your": true, "what": true, "who": true, "how": true, "why": true,
	"when": true, "where": true, "which": true, "this": true, "that": true, "these": true,
	"those": true, "with": true, "from": true, "about": true, "does": true, "did": true,
	"can": true, "could": true, "would": true, "should": true, "will": true, "have": true,
	"has": true, "had": true, "there": true, "their": true, "them": true, "they": true,
	"its": true, "it's": true, "not": true, "but": true, "all": true, "any": true,
	"some": true, "tell": true, "please": true, "know": true, "want": true, "need": true,
	"also": true, "more": true, "much": true, "many": true, "into": true, "our": true,
	"out": true, "get": true, "give": true, "let": true, "like": true, "just": true,
	"then": true, "than": true, "too": true, "very": true, "him": true, "her": true,
	"his": true, "she": true, "he's": true, "she's": true, "i'm": true, "me": true,
}
