package openai

// Feature-engineering prompts. The model must answer with a single JSON object
// matching the engineered-features schema; the response is validated at this
// boundary before anything downstream sees it.

const candidatePromptHeader = `You are an expert HR data analyst. Process the JSON candidate profile below into engineered features for a job recommendation engine.

Tasks:
1. "total_years_of_experience": sum the duration of all roles in "experiences" as a float; ongoing roles count up to the current date.
2. "seniority_level": one of "Junior", "Mid-level", "Senior", "Lead", "Manager/Director".
3. "education_level": highest achieved, one of "High School", "Bachelor's", "Master's", "PhD", "Other".
4. "skill_keywords": a deduplicated list of technical skills from the "skills" array plus any technologies found in experience and education descriptions. Include the foundational language implied by a framework (e.g. "Django" implies "Python", "React" implies "JavaScript", "Spring Boot" implies "Java").
5. "recent_job_title" and "recent_company": from the most recent role.
6. "candidate_summary": a concise 2-3 sentence professional summary covering total experience, key skills, and most recent role.

Respond with a single valid JSON object containing exactly these keys and no other text.

Candidate profile:
`

const jobPromptHeader = `You are an expert technical recruiter. Process the JSON job posting below into engineered features for a candidate recommendation engine.

Tasks:
1. "extracted_skills": a deduplicated list of all required technical skills from the "required_skills" array plus any technologies mentioned in "job_description". Include the foundational language implied by a framework (e.g. "Django" implies "Python", "React" implies "JavaScript", "Spring Boot" implies "Java").
2. "seniority_level": one of "Junior", "Mid-level", "Senior", "Lead", "Manager/Director", inferred from the title and description.
3. "required_experience_years": minimum years of experience as a float; if unstated, infer from seniority (Junior: 0, Mid-level: 2, Senior: 5, Lead: 8).
4. "location_normalized": standardized location, e.g. "London, UK" or "Remote (Global)".
5. "job_summary_for_embedding": a concise 2-3 sentence summary of responsibilities and main technologies, suitable for a vector embedding.

Respond with a single valid JSON object containing exactly these keys and no other text.

Job posting:
`
