package practice

import "github.com/promptdojo/promptdojo/internal/model"

// catalogEntry is a challenge plus the grading material that must never
// leave the server: the expected output and the teaching objective.
type catalogEntry struct {
	model.Challenge
	ExpectedOutput    string
	TeachingObjective string
}

// public strips a catalog entry down to the list projection: no expected
// output, no hint, no test cases.
func (e catalogEntry) public() model.Challenge {
	return model.Challenge{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Level:       e.Level,
		ModuleType:  e.ModuleType,
		ImageURL:    e.ImageURL,
	}
}

// detail is the single-challenge projection: hint and test cases included,
// expected output still withheld.
func (e catalogEntry) detail() model.Challenge {
	ch := e.public()
	ch.Hint = e.Hint
	ch.TestCases = e.TestCases
	return ch
}

var catalog = []catalogEntry{
	{
		Challenge: model.Challenge{
			ID:          1,
			Title:       "Golden Sunset Beach",
			Description: "Write a prompt that could generate this image of a beautiful sunset over a beach.",
			Level:       model.LevelBeginner,
			ModuleType:  model.ModuleImage,
			ImageURL:    "https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=600",
			Hint:        "Think about describing colors, lighting, and specific elements in the scene.",
		},
		ExpectedOutput:    "A breathtaking golden sunset over a tropical beach with palm trees silhouetted against the orange and purple sky, gentle waves lapping at the sandy shore, warm golden light reflecting on the water",
		TeachingObjective: "Learn to describe visual scenes with specific details like colors, lighting, and composition.",
	},
	{
		Challenge: model.Challenge{
			ID:          2,
			Title:       "Mountain Lake Reflection",
			Description: "Write a prompt that could generate this image of a mountain reflected in a calm lake.",
			Level:       model.LevelBeginner,
			ModuleType:  model.ModuleImage,
			ImageURL:    "https://images.unsplash.com/photo-1439066615861-d1af74d74000?w=600",
			Hint:        "Mention the reflection, water clarity, and surrounding nature elements.",
		},
		ExpectedOutput:    "A majestic snow-capped mountain perfectly reflected in a crystal clear alpine lake surrounded by pine trees under a bright blue sky with wispy clouds",
		TeachingObjective: "Learn to include environmental context and atmospheric details in image prompts.",
	},
	{
		Challenge: model.Challenge{
			ID:          3,
			Title:       "Cozy Coffee Shop",
			Description: "Write a prompt that could generate this image of a warm cozy coffee shop interior.",
			Level:       model.LevelBeginner,
			ModuleType:  model.ModuleImage,
			ImageURL:    "https://images.unsplash.com/photo-1509042239860-f550ce710b93?w=600",
			Hint:        "Describe the atmosphere, furniture, lighting, and mood of the place.",
		},
		ExpectedOutput:    "A warm cozy coffee shop interior with wooden tables, soft ambient lighting, steaming cups of coffee, bookshelf in the background, comfortable armchairs, and a rustic aesthetic",
		TeachingObjective: "Learn to convey mood and atmosphere in prompts.",
	},
	{
		Challenge: model.Challenge{
			ID:          4,
			Title:       "Welcome Email for New Users",
			Description: "Write a prompt to generate a welcome email for new users signing up to a fitness app.",
			Level:       model.LevelBeginner,
			ModuleType:  model.ModuleScript,
			Hint:        "Specify the tone (friendly), the audience (new fitness app user), and what sections the email should have.",
		},
		ExpectedOutput:    "A friendly, motivating welcome email that introduces app features, encourages the user to set their first fitness goal, includes a warm greeting, and ends with a call-to-action button text",
		TeachingObjective: "Learn to specify tone, audience, and structure in prompts.",
	},
	{
		Challenge: model.Challenge{
			ID:          5,
			Title:       "Product Description for Headphones",
			Description: "Write a prompt to generate a compelling product description for wireless noise-cancelling headphones.",
			Level:       model.LevelBeginner,
			ModuleType:  model.ModuleScript,
			Hint:        "Include the product type, key features to highlight, target audience, and desired tone.",
		},
		ExpectedOutput:    "A persuasive product description highlighting key features like noise cancellation, battery life, comfort, sound quality, with benefit-focused language and a compelling call to action",
		TeachingObjective: "Learn to provide context and constraints for marketing content.",
	},
	{
		Challenge: model.Challenge{
			ID:          6,
			Title:       "Futuristic City at Night",
			Description: "Write a prompt that could generate this image of a futuristic cyberpunk city at night.",
			Level:       model.LevelIntermediate,
			ModuleType:  model.ModuleImage,
			ImageURL:    "https://images.unsplash.com/photo-1480714378408-67cf0d13bc1b?w=600",
			Hint:        "Use style keywords like cyberpunk, mention lighting effects, and describe the mood.",
		},
		ExpectedOutput:    "A futuristic cyberpunk cityscape at night with towering neon-lit skyscrapers, holographic advertisements, flying vehicles, rain-slicked streets reflecting colorful neon lights, dense urban atmosphere with fog and dramatic lighting",
		TeachingObjective: "Learn to use style references and role prompting for image generation.",
	},
	{
		Challenge: model.Challenge{
			ID:          7,
			Title:       "Enchanted Forest Path",
			Description: "Write a prompt that could generate this magical forest scene.",
			Level:       model.LevelIntermediate,
			ModuleType:  model.ModuleImage,
			ImageURL:    "https://images.unsplash.com/photo-1441974231531-c6227db76b6e?w=600",
			Hint:        "Combine realistic nature elements with fantasy details. Specify an art style.",
		},
		ExpectedOutput:    "An enchanted forest path with sunlight filtering through ancient towering trees, mystical fog, glowing mushrooms, fireflies, lush green moss covering the ground, ethereal and magical atmosphere, fantasy art style",
		TeachingObjective: "Learn to blend realism with creative elements and specify artistic style.",
	},
	{
		Challenge: model.Challenge{
			ID:          8,
			Title:       "Motivational Speech for Students",
			Description: "Write a prompt to generate a 2-minute motivational speech for students who failed their exams.",
			Level:       model.LevelIntermediate,
			ModuleType:  model.ModuleScript,
			Hint:        "Specify the role (motivational speaker), audience (failed students), length (2 minutes), tone (empathetic but empowering), and structure.",
		},
		ExpectedOutput:    "A heartfelt 2-minute motivational speech addressing students who failed exams, acknowledging their pain, sharing examples of famous failures who succeeded, providing actionable advice for bouncing back, ending with an inspiring call to action",
		TeachingObjective: "Learn to use role prompting, audience specification, and output format constraints.",
	},
	{
		Challenge: model.Challenge{
			ID:          9,
			Title:       "Technical Blog Post on REST APIs",
			Description: "Write a prompt to generate a beginner-friendly technical blog post explaining REST APIs.",
			Level:       model.LevelIntermediate,
			ModuleType:  model.ModuleScript,
			Hint:        "Define the role (technical writer), audience (beginners), format (blog post with headings), and specific topics to cover.",
		},
		ExpectedOutput:    "A well-structured beginner-friendly blog post about REST APIs with introduction, what REST is, HTTP methods explained with examples, status codes, best practices, code examples, and conclusion",
		TeachingObjective: "Learn to structure complex content requests with clear format specifications.",
	},
	{
		Challenge: model.Challenge{
			ID:          10,
			Title:       "Underwater Ancient Temple",
			Description: "Write a prompt that could generate a photorealistic underwater ancient temple scene.",
			Level:       model.LevelAdvanced,
			ModuleType:  model.ModuleImage,
			ImageURL:    "https://images.unsplash.com/photo-1682687220742-aba13b6e50ba?w=600",
			Hint:        "Use technical photography terms, specify resolution, lighting type, and level of detail.",
		},
		ExpectedOutput:    "A photorealistic underwater scene of an ancient Greek temple ruins covered in coral and marine life, shafts of sunlight penetrating the deep blue water, schools of tropical fish swimming around marble columns, sea turtles, volumetric lighting, 8K resolution, hyperdetailed",
		TeachingObjective: "Learn advanced prompting with technical specifications, negative prompts, and quality modifiers.",
	},
	{
		Challenge: model.Challenge{
			ID:          11,
			Title:       "Business Plan Executive Summary",
			Description: "Write a prompt to generate an executive summary for a startup business plan for an AI-powered tutoring platform.",
			Level:       model.LevelAdvanced,
			ModuleType:  model.ModuleScript,
			Hint:        "Assign the role of a business consultant, specify all required sections, provide context about the startup, and define the professional tone and format.",
		},
		ExpectedOutput:    "A professional executive summary covering company overview, problem statement, solution, target market, revenue model, competitive advantage, team overview, funding requirements, and financial projections for an AI tutoring startup",
		TeachingObjective: "Learn to craft complex multi-section prompts with role assignment, detailed constraints, and professional formatting.",
	},
	{
		Challenge: model.Challenge{
			ID:          12,
			Title:       "Palindrome Checker Function",
			Description: "Write a prompt to generate a Python function that checks if a string is a palindrome, ignoring spaces and punctuation.",
			Level:       model.LevelAdvanced,
			ModuleType:  model.ModuleCode,
			Hint:        "Specify the programming language, function signature, edge cases to handle, and ask for clean readable code with comments.",
			TestCases: []model.TestCase{
				{Input: "A man, a plan, a canal: Panama", Expected: true},
				{Input: "hello", Expected: false},
				{Input: "", Expected: true},
			},
		},
		ExpectedOutput:    "def is_palindrome(s): cleaned = join(c.lower() for c in s if c.isalnum()) return cleaned == cleaned[::-1]",
		TeachingObjective: "Learn to write precise code generation prompts with specifications for language, function signature, edge cases, and code quality.",
	},
	{
		Challenge: model.Challenge{
			ID:          13,
			Title:       "Fibonacci Sequence Generator",
			Description: "Write a prompt to generate a Python function that returns the first N numbers of the Fibonacci sequence.",
			Level:       model.LevelAdvanced,
			ModuleType:  model.ModuleCode,
			Hint:        "Specify input/output format, handle edge cases like n=0 or n=1, and request efficient implementation.",
			TestCases: []model.TestCase{
				{Input: 5, Expected: []int{0, 1, 1, 2, 3}},
				{Input: 0, Expected: []int{}},
			},
		},
		ExpectedOutput:    "def fibonacci(n): if n <= 0: return [] seq = [0, 1] for i in range(2, n): seq.append(seq[-1] + seq[-2]) return seq",
		TeachingObjective: "Learn to specify edge cases, input validation, and efficiency requirements in code prompts.",
	},
	{
		Challenge: model.Challenge{
			ID:          14,
			Title:       "Word Frequency Counter",
			Description: "Write a prompt to generate a Python function that counts word frequency in a text and returns the top N most common words.",
			Level:       model.LevelAdvanced,
			ModuleType:  model.ModuleCode,
			Hint:        "Specify that the function should handle punctuation, be case-insensitive, and define the return format clearly.",
			TestCases: []model.TestCase{
				{Input: "the cat and the hat", Expected: [][]any{{"the", 2}, {"cat", 1}, {"and", 1}, {"hat", 1}}},
			},
		},
		ExpectedOutput:    "def word_frequency(text, n=5): words = text.lower().split() freq = {} for word in words: freq[word] = freq.get(word, 0) + 1 return sorted(freq.items(), key=lambda x: x[1], reverse=True)[:n]",
		TeachingObjective: "Learn to define clear input/output specifications and data transformation requirements.",
	},
}

func findEntry(id int) (catalogEntry, bool) {
	for _, e := range catalog {
		if e.ID == id {
			return e, true
		}
	}
	return catalogEntry{}, false
}
