package domainmap

// Domains is ordered: ties in hit count resolve to the earlier entry.
var Domains = []Domain{
	{
		ID:   "mobile-dev",
		Name: "Mobile Development",
		Triggers: []string{
			"flutter", "dart", "react native", "swift", "kotlin",
			"ios", "android", "mobile", "xamarin", "ionic", "cordova",
			"swiftui", "jetpack compose",
		},
		RelatedRoles: []string{
			"Mobile Developer", "Software Developer", "Application Developer",
			"Mobile Engineer", "Software Engineer", "App Developer",
		},
		Keywords: []string{"mobile", "app", "ios", "android", "application", "software"},
	},
	{
		ID:   "frontend-dev",
		Name: "Frontend Development",
		Triggers: []string{
			"react", "angular", "vue.js", "vue", "svelte", "next.js",
			"html", "css", "tailwind css", "tailwind", "redux", "jquery",
			"frontend", "front-end", "front end", "ui developer",
			"gatsby", "nuxt", "webpack", "vite",
		},
		RelatedRoles: []string{
			"Frontend Developer", "UI Developer", "Web Developer",
			"Software Engineer", "Frontend Engineer", "JavaScript Developer",
		},
		Keywords: []string{"frontend", "front-end", "ui", "web", "interface", "client-side", "javascript"},
	},
	{
		ID:   "backend-dev",
		Name: "Backend Development",
		Triggers: []string{
			"node.js", "express.js", "django", "flask", "fastapi",
			"spring boot", "asp.net", ".net", "ruby on rails", "laravel",
			"nestjs", "graphql", "rest api", "backend", "back-end", "back end",
			"microservices", "api development",
		},
		RelatedRoles: []string{
			"Backend Developer", "Software Engineer", "Server-Side Developer",
			"API Developer", "Backend Engineer", "Software Developer",
		},
		Keywords: []string{"backend", "back-end", "server", "api", "microservices", "software"},
	},
	{
		ID:       "fullstack-dev",
		Name:     "Full Stack Development",
		Triggers: []string{"full stack", "fullstack", "full-stack", "mern", "mean", "lamp"},
		RelatedRoles: []string{
			"Full Stack Developer", "Software Engineer", "Web Developer",
			"Full Stack Engineer", "Software Developer",
		},
		Keywords: []string{"full stack", "fullstack", "full-stack", "web", "software"},
	},
	{
		ID:   "data-ai",
		Name: "Data Science & AI",
		Triggers: []string{
			"machine learning", "tensorflow", "pytorch", "pandas", "numpy",
			"data analysis", "data science", "data analytics", "nlp",
			"natural language processing", "computer vision", "deep learning",
			"scikit-learn", "keras", "jupyter", "statistics", "big data",
			"data engineering", "spark", "hadoop", "airflow",
		},
		RelatedRoles: []string{
			"Data Scientist", "Machine Learning Engineer", "AI Engineer",
			"Data Analyst", "Research Scientist", "Data Engineer",
		},
		Keywords: []string{
			"data", "machine learning", "ai", "artificial intelligence",
			"analytics", "modeling", "science",
		},
	},
	{
		ID:   "devops-cloud",
		Name: "DevOps & Cloud",
		Triggers: []string{
			"aws", "azure", "gcp", "google cloud", "docker", "kubernetes",
			"terraform", "ci/cd", "jenkins", "github actions", "devops",
			"linux", "nginx", "ansible", "chef", "puppet", "cloudformation",
			"helm", "prometheus", "grafana",
		},
		RelatedRoles: []string{
			"DevOps Engineer", "Cloud Engineer", "Site Reliability Engineer",
			"Infrastructure Engineer", "Platform Engineer", "Systems Engineer",
		},
		Keywords: []string{"devops", "cloud", "infrastructure", "deployment", "operations", "sre"},
	},
	{
		ID:   "database",
		Name: "Database & Data Engineering",
		Triggers: []string{
			"postgresql", "mysql", "mongodb", "redis", "elasticsearch",
			"dynamodb", "database", "sql", "cassandra", "neo4j", "oracle db",
			"sql server", "dba",
		},
		RelatedRoles: []string{
			"Database Administrator", "Data Engineer", "Database Developer",
			"Backend Developer", "Software Engineer",
		},
		Keywords: []string{"database", "data engineering", "sql", "etl", "data pipeline"},
	},
	{
		ID:   "cybersecurity",
		Name: "Cybersecurity",
		Triggers: []string{
			"cybersecurity", "security", "penetration testing", "ethical hacking",
			"soc", "siem", "firewall", "vulnerability", "infosec",
			"information security", "network security",
		},
		RelatedRoles: []string{
			"Security Engineer", "Cybersecurity Analyst", "Security Consultant",
			"Information Security Analyst", "Penetration Tester",
		},
		Keywords: []string{"security", "cybersecurity", "infosec", "threat", "compliance"},
	},
	{
		ID:   "qa-testing",
		Name: "Quality Assurance",
		Triggers: []string{
			"testing", "qa", "quality assurance", "selenium", "cypress",
			"jest", "mocha", "automation testing", "manual testing",
			"test engineer", "sdet",
		},
		RelatedRoles: []string{
			"QA Engineer", "Test Engineer", "SDET", "Quality Assurance Analyst",
			"Software Tester", "Automation Engineer",
		},
		Keywords: []string{"testing", "qa", "quality", "automation", "test"},
	},

	// non-tech

	{
		ID:   "healthcare",
		Name: "Healthcare",
		Triggers: []string{
			"anesthesia", "anesthesiology", "anesthesiologist", "nursing", "nurse",
			"medical", "clinical", "pharmacy", "pharmacist", "radiology",
			"surgery", "surgeon", "physician", "healthcare", "hospital",
			"patient care", "therapist", "therapy", "dentist", "dental",
			"optometry", "dermatology", "cardiology", "oncology", "pediatrics",
			"psychiatry", "veterinary", "paramedic", "emt", "phlebotomy",
		},
		RelatedRoles: []string{
			"Healthcare Professional", "Medical Officer", "Clinical Specialist",
			"Hospital Staff", "Health Services Professional", "Medical Practitioner",
		},
		Keywords: []string{"medical", "clinical", "hospital", "healthcare", "patient", "health"},
	},
	{
		ID:   "finance",
		Name: "Finance & Accounting",
		Triggers: []string{
			"accounting", "finance", "auditing", "bookkeeping", "cpa",
			"financial analysis", "investment", "banking", "tax",
			"actuary", "actuarial", "portfolio", "trading", "fintech",
			"risk management", "compliance", "controller",
		},
		RelatedRoles: []string{
			"Financial Analyst", "Accountant", "Finance Manager",
			"Investment Analyst", "Banking Professional", "Auditor",
		},
		Keywords: []string{"finance", "financial", "accounting", "banking", "investment", "fiscal"},
	},
	{
		ID:   "marketing",
		Name: "Marketing & Communications",
		Triggers: []string{
			"marketing", "seo", "content writing", "social media", "branding",
			"advertising", "pr", "public relations", "copywriting",
			"digital marketing", "sem", "ppc", "email marketing",
			"growth hacking", "content strategy", "analytics",
		},
		RelatedRoles: []string{
			"Marketing Manager", "Digital Marketer", "Content Strategist",
			"Marketing Specialist", "Brand Manager", "Growth Manager",
		},
		Keywords: []string{"marketing", "brand", "advertising", "content", "campaign", "communications"},
	},
	{
		ID:   "design",
		Name: "Design & Creative",
		Triggers: []string{
			"figma", "ui/ux", "graphic design", "ux design", "ui design",
			"product design", "illustration", "adobe", "photoshop", "sketch",
			"interaction design", "visual design", "motion design",
			"user research", "wireframe", "prototype",
		},
		RelatedRoles: []string{
			"UX Designer", "UI Designer", "Product Designer",
			"Graphic Designer", "Visual Designer", "Interaction Designer",
		},
		Keywords: []string{"design", "creative", "visual", "user experience", "ux", "ui"},
	},
	{
		ID:   "education",
		Name: "Education & Training",
		Triggers: []string{
			"teaching", "education", "curriculum", "instructor", "professor",
			"tutoring", "e-learning", "training", "academic", "lecturer",
			"pedagogy", "edtech",
		},
		RelatedRoles: []string{
			"Teacher", "Instructor", "Education Specialist",
			"Training Coordinator", "Curriculum Developer", "Academic Advisor",
		},
		Keywords: []string{"education", "teaching", "academic", "learning", "training", "school"},
	},
	{
		ID:   "legal",
		Name: "Legal",
		Triggers: []string{
			"law", "legal", "attorney", "lawyer", "paralegal", "compliance",
			"litigation", "contract law", "corporate law", "intellectual property",
			"patent", "trademark",
		},
		RelatedRoles: []string{
			"Attorney", "Legal Counsel", "Paralegal",
			"Compliance Officer", "Legal Analyst", "Legal Advisor",
		},
		Keywords: []string{"legal", "law", "compliance", "litigation", "regulatory"},
	},
	{
		ID:   "engineering-nonsoft",
		Name: "Engineering (Non-Software)",
		Triggers: []string{
			"mechanical engineering", "civil engineering", "electrical engineering",
			"chemical engineering", "structural", "cad", "autocad", "solidworks",
			"aerospace", "biomedical", "environmental engineering", "industrial engineering",
			"manufacturing", "robotics",
		},
		RelatedRoles: []string{
			"Mechanical Engineer", "Civil Engineer", "Electrical Engineer",
			"Project Engineer", "Design Engineer", "Process Engineer",
		},
		Keywords: []string{"engineering", "technical", "design", "manufacturing", "construction"},
	},
	{
		ID:   "project-management",
		Name: "Project & Product Management",
		Triggers: []string{
			"project management", "product management", "scrum master", "agile",
			"pmp", "product owner", "program manager", "scrum", "kanban",
			"prince2", "delivery manager",
		},
		RelatedRoles: []string{
			"Project Manager", "Product Manager", "Program Manager",
			"Scrum Master", "Delivery Manager", "Technical Program Manager",
		},
		Keywords: []string{"project", "product", "management", "delivery", "agile", "scrum"},
	},
	{
		ID:   "sales",
		Name: "Sales & Business Development",
		Triggers: []string{
			"sales", "business development", "account management", "crm",
			"salesforce", "lead generation", "b2b", "b2c", "revenue",
			"account executive", "partnerships",
		},
		RelatedRoles: []string{
			"Sales Manager", "Account Executive", "Business Development Manager",
			"Sales Representative", "Account Manager",
		},
		Keywords: []string{"sales", "business", "revenue", "account", "client"},
	},
	{
		ID:   "hr",
		Name: "Human Resources",
		Triggers: []string{
			"human resources", "hr", "recruiting", "recruitment", "talent acquisition",
			"payroll", "employee relations", "onboarding", "compensation",
			"benefits", "hris",
		},
		RelatedRoles: []string{
			"HR Manager", "Recruiter", "Talent Acquisition Specialist",
			"HR Business Partner", "People Operations Manager",
		},
		Keywords: []string{"hr", "human resources", "recruiting", "talent", "people"},
	},
}
