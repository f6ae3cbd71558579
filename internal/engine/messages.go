package engine

import (
	"fmt"
	"strings"

	"github.com/univelcity/unibot/internal/catalog"
)

// CoursesOverviewURL is the public course listing shared in deferral and
// fallback replies.
const CoursesOverviewURL = "https://univelcity.com/courses"

// InstallmentSignupURL is the credit partner's sign-up page.
const InstallmentSignupURL = "https://credit.advancly.com/univel/sign-up"

// welcomeMessage greets a brand-new contact and asks for their name.
func welcomeMessage() string {
	return "👋 Welcome to *Univelcity*! 🎉 We train individuals in high-demand tech skills. **What's your name?** 😊"
}

// menuMessage lists all catalog entries numbered 1..N in catalog order.
func menuMessage(name string, cat *catalog.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Nice to meet you, *%s*! 🎉 Here are the courses we offer at Univelcity:\n\n", name)
	for i, e := range cat.Entries() {
		fmt.Fprintf(&b, "%d️⃣ %s\n", i+1, e.Name)
	}
	first, _ := cat.NameAt(1)
	fmt.Fprintf(&b, "\nReply with the course number (e.g., \"1\" for %s) to learn more.", first)
	return b.String()
}

// courseDetailBlock renders the price/duration/mode/URL block shared by the
// selection reply and the broadcast outreach.
func courseDetailBlock(info catalog.CourseInfo) string {
	return fmt.Sprintf("📌 *Price:* %s\n⏳ *Duration:* %s\n🖥️ *Mode:* %s\n🔗 *Learn More & Enroll:* %s\n\n👉 Would you like to know about our payment plans? 😊",
		info.Price, info.Duration, info.Delivery, info.URL)
}

// courseSelectedMessage confirms a menu selection with the course details.
func courseSelectedMessage(course string, info catalog.CourseInfo) string {
	return fmt.Sprintf("Great choice! Here are the details for *%s*:\n\n%s", course, courseDetailBlock(info))
}

// broadcastMessage is the first outreach to an imported lead.
func broadcastMessage(name, course string, info catalog.CourseInfo) string {
	return fmt.Sprintf("Hey %s, thanks for your interest in our %s course! 🚀 Here are the details:\n\n%s", name, course, courseDetailBlock(info))
}

// repromptMessage asks for a valid menu number.
func repromptMessage(max int) string {
	return fmt.Sprintf("Please reply with the correct course number (1-%d) to proceed. 😊", max)
}

// moreInfoMessage shares the enrollment link plus the payment plan offer.
func moreInfoMessage(name string, info catalog.CourseInfo) string {
	return fmt.Sprintf("Awesome, %s! 🎉 You can register directly here: %s\n\n💳 We offer flexible payment plans. Would you like me to send details? 😊", name, info.URL)
}

// priceMessage quotes the tuition for the lead's course.
func priceMessage(course string, info catalog.CourseInfo) string {
	return fmt.Sprintf("The tuition for %s is %s. 💰\n\nWe also offer flexible payment plans. Would you like me to send those options?", course, info.Price)
}

// deferralMessage acknowledges a "not now" reply.
func deferralMessage(name string) string {
	return fmt.Sprintf("No problem, %s! 😊 I'll check back in later. Meanwhile, feel free to explore our courses: %s", name, CoursesOverviewURL)
}

// paymentPlanMessage offers the advisor-managed payment plan.
func paymentPlanMessage() string {
	return "We offer payment plans! 💳 You can pay in installments. Our advisor can share the details with you. Would you like to schedule a quick chat? 😊"
}

// installmentMessage shares the credit partner link.
func installmentMessage() string {
	return fmt.Sprintf("We accept installment payments! 💳 This is managed by our partner *Advancely*. You can sign up for a credit offer here: %s. Let me know if you need help! 😊", InstallmentSignupURL)
}

// farewellMessage closes the conversation after a permanent decline.
func farewellMessage(name string) string {
	return fmt.Sprintf("No problem, %s! 😊 Thank you for your time, and I wish you all the best in your journey. Feel free to reach out if you change your mind.", name)
}

// needsHumanMessage is the generic reply when the bot cannot help.
func needsHumanMessage(name string) string {
	greeting := "Thanks for reaching out"
	if name != "" {
		greeting = fmt.Sprintf("Thanks for reaching out, %s", name)
	}
	return fmt.Sprintf("%s! 😊 Our team is here to help. Let me know if you have any questions. Meanwhile, you can check our courses here: %s", greeting, CoursesOverviewURL)
}
