package assessment

// Descriptor is the text shown alongside a profile.
type Descriptor struct {
	Profile       Profile  `json:"profile"`
	Name          string   `json:"name"`
	Headline      string   `json:"headline"`
	Strengths     []string `json:"strengths"`
	Opportunities []string `json:"opportunities"`
}

var descriptors = map[Profile]Descriptor{
	ProfileStrategicCommunicator: {
		Headline: "You are a Strategic Communicator!",
		Strengths: []string{
			"Balancing deep analytical insights with clear communication",
			"Adapting technical content for different audiences",
			"Driving data-informed decision making",
			"Building bridges between technical and non-technical teams",
		},
		Opportunities: []string{
			"Consider diving even deeper into advanced statistical methods",
			"Develop frameworks to scale your communication approaches",
			"Mentor others in balancing technical and communication skills",
			"Lead cross-functional data initiatives",
		},
	},
	ProfileTechnicalExpert: {
		Headline: "You are a Technical Expert!",
		Strengths: []string{
			"Deep technical expertise and thorough analysis",
			"Strong attention to statistical validity",
			"Excellence in research and methodology",
			"Mastery of advanced analytical techniques",
		},
		Opportunities: []string{
			"Develop skills in translating technical concepts for non-technical audiences",
			"Practice creating executive summaries of your analyses",
			"Incorporate more visualizations in your work",
			"Focus on stakeholder engagement and relationship building",
		},
	},
	ProfileStoryteller: {
		Headline: "You are a Storyteller!",
		Strengths: []string{
			"Translating complex insights into compelling narratives",
			"Creating impactful data visualizations",
			"Understanding audience needs",
			"Driving actionable insights from data",
		},
		Opportunities: []string{
			"Deepen your understanding of statistical methodologies",
			"Develop more robust validation techniques for your analyses",
			"Build expertise in advanced analytical tools",
			"Strengthen your technical documentation skills",
		},
	},
	ProfileIntuitiveAnalyst: {
		Headline: "You are an Intuitive Analyst!",
		Strengths: []string{
			"Quick pattern recognition",
			"Practical problem-solving approach",
			"Flexibility in analytical methods",
			"Focus on business impact",
		},
		Opportunities: []string{
			"Develop a more structured approach to analysis",
			"Build expertise in specific analytical tools or methods",
			"Enhance your data visualization capabilities",
			"Practice formal presentation of analytical findings",
		},
	},
}

// Describe returns the narrative for p.
func Describe(p Profile) Descriptor {
	d := descriptors[p]
	d.Profile = p
	d.Name = p.String()
	d.Strengths = append([]string(nil), d.Strengths...)
	d.Opportunities = append([]string(nil), d.Opportunities...)
	return d
}

// NextSteps is the development advice shown after every result.
var NextSteps = []string{
	"Scheduling a personalized consultation to create a development plan",
	"Exploring relevant training and resources",
	"Finding a mentor who complements your style",
	"Practicing new approaches in your current role",
}

// ConsultationBenefits lists what the follow-up consultation covers.
var ConsultationBenefits = []string{
	"Review your assessment results in detail",
	"Create a personalized development plan",
	"Identify specific resources and opportunities",
	"Set actionable goals for your growth",
}

// DefaultConsultationURL is used when no booking link is configured.
const DefaultConsultationURL = "https://imdataanalyst.com/contact"
