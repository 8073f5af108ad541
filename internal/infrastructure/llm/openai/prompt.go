package openai

const (
	analysisSystemMessage   = "You are a legal contract analysis expert. Always respond with valid JSON only."
	comparisonSystemMessage = "You are an aviation contract analysis expert. Always respond with valid JSON only."
)

// buildAnalysisPrompt embeds the contract verbatim. Length is bounded only by the
// completion token ceiling.
func buildAnalysisPrompt(text, fileName string) string {
	return `
You are an advanced legal contract analysis AI with the ability to classify contracts and recommend resources. Analyze the following contract text and provide a comprehensive analysis including categorization and resource recommendations.

CONTRACT FILE: ` + fileName + `

CONTRACT TEXT:
` + text + `

Please provide your analysis in the following JSON format:
{
  "summary": "A brief 2-3 sentence summary of the contract and its main purpose",
  "keyClauses": [
    {
      "title": "Clause Title",
      "description": "Brief description of what this clause does",
      "risk": "high|medium|low",
      "type": "advantage|disadvantage|neutral"
    }
  ],
  "recommendations": [
    "Specific recommendation 1",
    "Specific recommendation 2"
  ],
  "overallRisk": "high|medium|low",
  "categories": [
    {
      "name": "Category Name (e.g., Real Estate, Employment, Business Services, Legal, etc.)",
      "confidence": 0.95
    }
  ],
  "resourceRecommendations": [
    {
      "type": "template|expert|guide|service",
      "title": "Resource Title",
      "description": "Brief description of the resource",
      "priority": 1-5,
      "reason": "Why this resource is recommended based on the contract analysis"
    }
  ],
  "learningInsights": {
    "patterns": {
      "risk_indicators": ["list of patterns that indicate risk"],
      "common_clauses": ["frequently found clause types"],
      "industry_context": "inferred industry or context"
    },
    "confidence": 0.85
  }
}

Guidelines for analysis:
- Focus on clauses that have significant legal or financial impact
- Identify potential advantages/disadvantages for the party uploading the contract
- Consider liability, termination, payment terms, intellectual property, etc.
- Risk levels: high = serious legal/financial exposure, medium = notable but manageable, low = standard/minimal concern
- Type: advantage = favorable to uploader, disadvantage = unfavorable to uploader, neutral = balanced/standard
- Provide 3-8 key clauses maximum
- Be specific and actionable in recommendations
- Overall risk should reflect the contract's potential impact on the uploader

Contract Categories (classify into 1-3 most relevant):
- Real Estate (leases, rentals, mortgages, property)
- Employment (job contracts, employment agreements, HR documents)
- Business Services (consulting, contractor, professional services)
- Legal (NDAs, partnerships, corporate agreements)
- Sales & Commerce (purchase agreements, vendor contracts)
- Media & Content (releases, IP agreements, content creation)
- Financial (loans, investments, banking documents)

Resource Recommendations Guidelines:
- Templates: Contract templates for similar agreements
- Experts: Legal specialists or consultants who could help
- Guides: Educational resources or checklists
- Services: Professional services or tools
- Priority 5 = highest priority (essential), 1 = lowest priority (optional)
- Base recommendations on contract type, risk level, and complexity
- Always recommend expert consultation for high-risk contracts
- Suggest relevant templates for medium-risk contracts
- Include educational resources for learning purposes

Learning Insights:
- Extract patterns that could help improve future analyses
- Identify risk indicators and common clause patterns
- Note industry context for better categorization

Return only valid JSON, no additional text or formatting.
`
}

// buildComparisonPrompt grades the booking form from the broker's side: stricter
// cancellation terms than the operator's are favorable, looser ones are high risk.
func buildComparisonPrompt(operatorText, bookingText, operatorFileName, bookingFileName string) string {
	return `
You are an aviation industry contract analysis expert specializing in air charter services (ACS) risk assessment. ACS is the broker/charter company that sells seats to clients, and the operator provides the aircraft.

OPERATOR CONTRACT FILE: ` + operatorFileName + `
` + operatorText + `

ACS BOOKING FORM FILE: ` + bookingFileName + `
` + bookingText + `

CRITICAL BUSINESS CONTEXT:
- ACS sells charter flights to clients and books them with aircraft operators
- ACS wants STRICT cancellation terms that protect them from client cancellations
- ACS wants terms that are EQUAL TO OR MORE FAVORABLE than the operator's terms
- Loose/flexible cancellation terms are BAD for ACS (they lose money if clients cancel)
- Strict cancellation terms are GOOD for ACS (they can cancel bookings without penalty)
- ACS should have cancellation policies that are at least as strict as the operator's

KEY CHECKLIST ITEMS TO ANALYZE:
1. Date matches between contracts
2. Operator name is properly mentioned on ACS booking form
3. Aircraft type/model is specified and matches
4. Number of seats is mentioned and passenger limits are within operator's capacity
5. Cancellation terms - ACS should have policies at least as strict as operator (or stricter)
6. For one-way trips: ACS should use 100% cancellation policy (not standard rates)
7. Payment terms and deposits
8. Liability and insurance requirements

RISK ASSESSMENT PRINCIPLES:
- HIGH RISK: ACS has LOOSER/more flexible cancellation terms than operator (ACS loses money)
- MEDIUM RISK: Missing key details (dates, aircraft, seats) that could cause operational issues
- LOW RISK: Minor discrepancies or standard industry terms
- STRENGTH: "Strong" ACS terms = strict cancellation policies, clear terms, full operator details
- STRENGTH: "Weak" ACS terms = flexible cancellation, missing details, vague commitments

Provide your analysis in the following JSON format:
{
  "summary": "2-3 sentence summary of the contract comparison and ACS protection level",
  "comparison": {
    "alignment": "high|medium|low (how well ACS terms protect the business)",
    "overallAssessment": "Brief assessment of how well ACS is protected",
    "keyDifferences": [
      {
        "category": "Category name (e.g., Cancellation Terms, Aircraft Details, Dates)",
        "operatorTerms": "What the operator contract specifies",
        "acsTerms": "What the ACS booking form specifies",
        "risk": "high|medium|low",
        "impact": "Description of potential impact on ACS business"
      }
    ]
  },
  "acsRiskAssessment": {
    "cancellationRisks": [
      {
        "title": "Risk title",
        "description": "Detailed description of the cancellation risk",
        "severity": "high|medium|low",
        "operatorContractReference": "Specific reference to operator terms",
        "acsBookingReference": "Specific reference to ACS booking terms",
        "recommendation": "Specific recommendation to mitigate this risk"
      }
    ],
    "financialExposure": [
      {
        "title": "Exposure title",
        "description": "Description of financial exposure",
        "potentialLoss": "Estimate of potential financial impact",
        "risk": "high|medium|low",
        "mitigation": "How to mitigate this exposure"
      }
    ],
    "operationalRisks": [
      {
        "title": "Operational risk title",
        "description": "Description of operational risk",
        "impact": "Impact on ACS operations",
        "likelihood": "high|medium|low",
        "recommendation": "Recommendation to address this risk"
      }
    ]
  },
  "recommendations": [
    {
      "priority": "high|medium|low",
      "category": "negotiation|insurance|operational|legal",
      "title": "Recommendation title",
      "description": "Detailed description",
      "actionItems": ["Specific action item 1", "Specific action item 2"]
    }
  ],
  "contractStrength": {
    "operatorContract": "strong|balanced|weak (operator's terms from ACS perspective)",
    "acsBooking": "strong|balanced|weak (ACS protection level)",
    "overall": "favorable_operator|balanced|favorable_acs"
  }
}

ANALYSIS PRIORITIES:
1. Cancellation terms: ACS should be EQUAL TO OR STRICTER than operator
2. Complete details: dates, aircraft, seats, operator name must match
3. One-way trips: Should use 100% cancellation (not standard rates)
4. Clear terms: Avoid vague language that could be misinterpreted

Return only valid JSON, no additional text or formatting.
`
}
