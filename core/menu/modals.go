package menu

import "github.com/pkg/errors"

// Modal identifies the secondary modal opened from a level card.
// The zero value means no modal is open.
type Modal string

const (
	ModalNone         Modal = ""
	ModalWebDev       Modal = "web-dev"
	ModalAppDev       Modal = "app-dev"
	ModalWebDevExpert Modal = "web-dev-expert"
	ModalAppDevExpert Modal = "app-dev-expert"
)

var ErrUnknownModal = errors.New("unknown sub-modal")

// Track is one entry of a sub-modal; it links to its detail page.
type Track struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
	Path string `json:"path"`
}

type SubModal struct {
	ID     Modal   `json:"id"`
	Title  string  `json:"title"`
	Tracks []Track `json:"tracks"`
}

var subModals = map[Modal]SubModal{
	ModalWebDev: {
		ID:    ModalWebDev,
		Title: "Choose your Web Development track",
		Tracks: []Track{
			{Name: "React.js", Desc: "Components, hooks and the React ecosystem", Path: "/reactjs-details"},
			{Name: "Angular", Desc: "TypeScript-first SPAs with Angular", Path: "/angular-details"},
			{Name: "Tailwind CSS", Desc: "Utility-first styling for modern UIs", Path: "/tailwind-details"},
		},
	},
	ModalWebDevExpert: {
		ID:    ModalWebDevExpert,
		Title: "Web Development: Expert tracks",
		Tracks: []Track{
			{Name: "Next.js", Desc: "Server rendering and full-stack React", Path: "/nextjs-details"},
			{Name: "Node.js", Desc: "APIs and real-time services", Path: "/nodejs-details"},
			{Name: "MERN Stack", Desc: "MongoDB, Express, React and Node end to end", Path: "/mern-stack-details"},
		},
	},
	ModalAppDev: {
		ID:    ModalAppDev,
		Title: "Choose your App Development track",
		Tracks: []Track{
			{Name: "Flutter", Desc: "One codebase for Android and iOS", Path: "/flutter-details"},
			{Name: "React Native", Desc: "Native apps with React", Path: "/react-native-details"},
			{Name: "Kotlin", Desc: "Modern Android development", Path: "/kotlin-details"},
		},
	},
	ModalAppDevExpert: {
		ID:    ModalAppDevExpert,
		Title: "App Development: Expert tracks",
		Tracks: []Track{
			{Name: "Swift", Desc: "Native iOS with SwiftUI", Path: "/swift-details"},
			{Name: "Advanced Flutter", Desc: "State management, animations and release pipelines", Path: "/flutter-advanced-details"},
		},
	},
}

// Valid reports whether m is a known modal or ModalNone.
func (m Modal) Valid() bool {
	if m == ModalNone {
		return true
	}
	_, ok := subModals[m]
	return ok
}

// SubModalFor returns the contents of modal `m`.
func SubModalFor(m Modal) (SubModal, error) {
	sm, ok := subModals[m]
	if !ok {
		return SubModal{}, errors.Wrapf(ErrUnknownModal, "%q", m)
	}
	sm.Tracks = append([]Track(nil), sm.Tracks...)
	return sm, nil
}
