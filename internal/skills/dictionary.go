// Package skills canonicalizes skill names through an alias dictionary and
// matches a user's skills against a job's required skills.
package skills

import "strings"

type Entry struct {
	Canonical string
	Aliases   []string
	Category  string
}

var Dictionary = []Entry{
	{"JavaScript", []string{"js", "ecmascript", "es6", "es2015"}, "Programming Languages"},
	{"TypeScript", []string{"ts"}, "Programming Languages"},
	{"Python", []string{"py", "python3"}, "Programming Languages"},
	{"Java", []string{"jdk", "j2ee"}, "Programming Languages"},
	{"C#", []string{"csharp", "c sharp", ".net c#"}, "Programming Languages"},
	{"C++", []string{"cpp", "cplusplus"}, "Programming Languages"},
	{"Go", []string{"golang"}, "Programming Languages"},
	{"Rust", nil, "Programming Languages"},
	{"Swift", nil, "Programming Languages"},
	{"Kotlin", []string{"kt"}, "Programming Languages"},
	{"Ruby", []string{"rb"}, "Programming Languages"},
	{"PHP", []string{"php8", "php7"}, "Programming Languages"},
	{"Scala", nil, "Programming Languages"},
	{"R", []string{"r-lang", "rlang"}, "Programming Languages"},
	{"Dart", nil, "Programming Languages"},
	{"SQL", []string{"structured query language"}, "Programming Languages"},

	{"React", []string{"reactjs", "react.js"}, "Frontend"},
	{"React Native", []string{"rn", "react-native"}, "Frontend"},
	{"Angular", []string{"angularjs", "angular.js", "ng"}, "Frontend"},
	{"Vue.js", []string{"vue", "vuejs"}, "Frontend"},
	{"Next.js", []string{"nextjs", "next"}, "Frontend"},
	{"Svelte", []string{"sveltekit"}, "Frontend"},
	{"HTML", []string{"html5"}, "Frontend"},
	{"CSS", []string{"css3", "stylesheet"}, "Frontend"},
	{"Tailwind CSS", []string{"tailwind", "tailwindcss"}, "Frontend"},
	{"Redux", []string{"redux toolkit", "rtk"}, "Frontend"},
	{"jQuery", []string{"jquery"}, "Frontend"},

	{"Node.js", []string{"node", "nodejs", "node.js"}, "Backend"},
	{"Express.js", []string{"express", "expressjs"}, "Backend"},
	{"Django", []string{"django rest", "drf"}, "Backend"},
	{"Flask", nil, "Backend"},
	{"FastAPI", []string{"fast api"}, "Backend"},
	{"Spring Boot", []string{"spring", "spring framework"}, "Backend"},
	{"ASP.NET", []string{"asp.net core", "dotnet", ".net"}, "Backend"},
	{"Ruby on Rails", []string{"rails", "ror"}, "Backend"},
	{"Laravel", nil, "Backend"},
	{"NestJS", []string{"nest.js", "nest"}, "Backend"},
	{"GraphQL", []string{"gql"}, "Backend"},
	{"REST API", []string{"restful", "rest apis", "api development"}, "Backend"},

	{"PostgreSQL", []string{"postgres", "psql", "pg"}, "Databases"},
	{"MySQL", []string{"mariadb"}, "Databases"},
	{"MongoDB", []string{"mongo", "nosql"}, "Databases"},
	{"Redis", nil, "Databases"},
	{"SQLite", []string{"sqlite3"}, "Databases"},
	{"Firebase", []string{"firestore"}, "Databases"},
	{"Supabase", nil, "Databases"},
	{"DynamoDB", []string{"dynamo"}, "Databases"},
	{"Elasticsearch", []string{"elastic", "es"}, "Databases"},

	{"AWS", []string{"amazon web services", "amazon aws"}, "Cloud & DevOps"},
	{"Azure", []string{"microsoft azure"}, "Cloud & DevOps"},
	{"GCP", []string{"google cloud", "google cloud platform"}, "Cloud & DevOps"},
	{"Docker", []string{"containerization", "docker compose"}, "Cloud & DevOps"},
	{"Kubernetes", []string{"k8s"}, "Cloud & DevOps"},
	{"CI/CD", []string{"continuous integration", "continuous deployment", "cicd"}, "Cloud & DevOps"},
	{"Terraform", []string{"iac", "infrastructure as code"}, "Cloud & DevOps"},
	{"Jenkins", nil, "Cloud & DevOps"},
	{"GitHub Actions", []string{"gh actions"}, "Cloud & DevOps"},
	{"Linux", []string{"unix", "bash", "shell scripting"}, "Cloud & DevOps"},
	{"Nginx", []string{"reverse proxy"}, "Cloud & DevOps"},
	{"Vercel", nil, "Cloud & DevOps"},

	{"Machine Learning", []string{"ml", "deep learning", "dl"}, "Data & AI"},
	{"TensorFlow", []string{"tf"}, "Data & AI"},
	{"PyTorch", []string{"torch"}, "Data & AI"},
	{"Pandas", nil, "Data & AI"},
	{"NumPy", []string{"numpy"}, "Data & AI"},
	{"Data Analysis", []string{"data analytics", "data science"}, "Data & AI"},
	{"NLP", []string{"natural language processing"}, "Data & AI"},
	{"Computer Vision", []string{"cv", "image recognition"}, "Data & AI"},

	{"Git", []string{"github", "gitlab", "version control"}, "Tools"},
	{"Agile", []string{"scrum", "kanban", "sprint"}, "Methods"},
	{"Jira", []string{"atlassian"}, "Tools"},
	{"Figma", []string{"ui/ux design"}, "Tools"},
	{"Testing", []string{"unit testing", "jest", "mocha", "cypress", "selenium", "tdd"}, "Tools"},
	{"Webpack", []string{"bundler", "vite", "rollup"}, "Tools"},

	{"Leadership", []string{"team lead", "team management"}, "Soft Skills"},
	{"Communication", []string{"written communication", "verbal communication"}, "Soft Skills"},
	{"Problem Solving", []string{"analytical thinking", "critical thinking"}, "Soft Skills"},
	{"Project Management", []string{"pm", "project planning"}, "Soft Skills"},
	{"Teamwork", []string{"collaboration", "team player"}, "Soft Skills"},
}

// lookup maps every lowercased canonical name and alias to its canonical form.
// Earlier entries win on collision.
var lookup = func() map[string]string {
	m := make(map[string]string, len(Dictionary)*3)
	add := func(k, v string) {
		k = strings.ToLower(k)
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	for _, e := range Dictionary {
		add(e.Canonical, e.Canonical)
		for _, a := range e.Aliases {
			add(a, e.Canonical)
		}
	}
	return m
}()

// Normalize returns the canonical spelling of raw, or raw trimmed when it is
// not in the dictionary.
func Normalize(raw string) string {
	if c, ok := lookup[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return c
	}
	return strings.TrimSpace(raw)
}
