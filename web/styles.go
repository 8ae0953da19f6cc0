package web

// documentStyles is the stylesheet embedded into every rendered page. It
// reproduces the professional document look: a fixed sidebar navigation, a
// centered content column, bordered tables with a tinted first column, and
// framed diagram figures.
const documentStyles = `
* {
	margin: 0;
	padding: 0;
	box-sizing: border-box;
}

body {
	font-family: 'Segoe UI', -apple-system, BlinkMacSystemFont, 'Roboto', sans-serif;
	line-height: 1.6;
	color: #2c3e50;
	background: #ffffff;
	font-size: 14px;
}

.container {
	max-width: 1200px;
	margin: 0 auto;
	padding: 40px 20px;
	background: white;
}

/* Header */
.document-header {
	text-align: left;
	border-bottom: 1px solid #e0e0e0;
	padding-bottom: 20px;
	margin-bottom: 40px;
}

.main-title {
	font-size: 24px;
	font-weight: 600;
	color: #1a1a1a;
	margin-bottom: 10px;
	letter-spacing: -0.5px;
}

/* Sections */
.document-section {
	margin-bottom: 50px;
	page-break-inside: avoid;
}

.section-header-wrapper {
	margin-bottom: 30px;
}

.section-title {
	font-size: 20px;
	font-weight: 600;
	color: #1a1a1a;
	margin-bottom: 20px;
	padding-bottom: 10px;
	border-bottom: 1px solid #e0e0e0;
}

.section-header {
	font-size: 18px;
	font-weight: 600;
	color: #1a1a1a;
	margin: 30px 0 15px 0;
	padding-bottom: 5px;
}

.subsection-header {
	font-size: 16px;
	font-weight: 600;
	color: #2c3e50;
	margin: 25px 0 12px 0;
}

.bold-header {
	font-size: 14px;
	font-weight: 600;
	color: #34495e;
	margin: 20px 0 10px 0;
}

/* Text content */
.section-content {
	line-height: 1.7;
}

.content-paragraph {
	margin-bottom: 15px;
	text-align: justify;
	color: #2c3e50;
	font-size: 14px;
	line-height: 1.7;
}

/* Tables */
.professional-table-container {
	margin: 30px 0;
	width: 100%;
}

.table-title {
	font-size: 16px;
	font-weight: 600;
	color: #2c3e50;
	margin-bottom: 15px;
}

.table-wrapper {
	width: 100%;
	overflow-x: auto;
	border: 1px solid #e0e0e0;
	border-radius: 4px;
}

.professional-table {
	width: 100%;
	border-collapse: collapse;
	font-size: 13px;
	background: white;
}

.table-header {
	background: #f8f9fa;
	color: #2c3e50;
	font-weight: 600;
	padding: 12px 15px;
	text-align: left;
	border-bottom: 2px solid #e0e0e0;
	border-right: 1px solid #e0e0e0;
	white-space: nowrap;
}

.table-header:last-child {
	border-right: none;
}

.table-row {
	border-bottom: 1px solid #e0e0e0;
}

.table-row:nth-child(even) {
	background: #fafafa;
}

.table-row:hover {
	background: #f0f8ff;
}

.table-cell {
	padding: 12px 15px;
	border-right: 1px solid #e0e0e0;
	vertical-align: top;
	line-height: 1.5;
}

.table-cell:last-child {
	border-right: none;
}

.first-column {
	font-weight: 500;
	background: #f8f9fa;
	color: #2c3e50;
}

/* Diagrams and flowcharts */
.diagram-container, .flowchart-container {
	margin: 40px 0;
	text-align: center;
	background: #fafafa;
	padding: 30px 20px;
	border-radius: 8px;
	border: 1px solid #e0e0e0;
}

.diagram-title, .flowchart-title {
	font-size: 16px;
	font-weight: 600;
	color: #2c3e50;
	margin-bottom: 20px;
}

.diagram-wrapper, .flowchart-wrapper {
	margin: 20px 0;
}

.system-diagram, .process-flowchart {
	max-width: 100%;
	height: auto;
	border-radius: 4px;
	box-shadow: 0 2px 8px rgba(0,0,0,0.1);
}

.diagram-caption, .flowchart-caption {
	font-size: 12px;
	color: #7f8c8d;
	font-style: italic;
	margin-top: 15px;
}

/* Navigation */
.nav-container {
	position: fixed;
	top: 0;
	left: 0;
	width: 280px;
	height: 100vh;
	background: #2c3e50;
	color: white;
	padding: 20px;
	overflow-y: auto;
	z-index: 1000;
	box-shadow: 2px 0 10px rgba(0,0,0,0.1);
}

.nav-title {
	font-size: 18px;
	font-weight: 600;
	margin-bottom: 30px;
	text-align: center;
	border-bottom: 1px solid #34495e;
	padding-bottom: 15px;
}

.nav-list {
	list-style: none;
	padding: 0;
}

.nav-item {
	margin-bottom: 10px;
}

.nav-link {
	color: #ecf0f1;
	text-decoration: none;
	display: block;
	padding: 10px 15px;
	border-radius: 4px;
	transition: all 0.3s ease;
	font-size: 14px;
}

.nav-link:hover, .nav-link.active {
	background: #3498db;
	text-decoration: none;
	transform: translateX(5px);
}

.main-content {
	margin-left: 300px;
	padding: 20px 40px;
}

/* Responsive layout */
@media (max-width: 1024px) {
	.nav-container {
		transform: translateX(-100%);
		transition: transform 0.3s ease;
	}

	.nav-container.open {
		transform: translateX(0);
	}

	.main-content {
		margin-left: 0;
		padding: 20px;
	}

	.container {
		padding: 20px 10px;
	}
}

@media (max-width: 768px) {
	.main-title {
		font-size: 20px;
	}

	.section-title {
		font-size: 18px;
	}

	.professional-table {
		font-size: 12px;
	}

	.table-header, .table-cell {
		padding: 8px 10px;
	}

	.diagram-container, .flowchart-container {
		padding: 20px 15px;
	}
}

/* Print */
@media print {
	.nav-container {
		display: none;
	}

	.main-content {
		margin-left: 0;
	}

	.document-section {
		break-inside: avoid;
	}

	.professional-table-container {
		break-inside: avoid;
	}
}

/* Utilities */
.text-center { text-align: center; }
.text-bold { font-weight: 600; }
.mb-10 { margin-bottom: 10px; }
.mb-20 { margin-bottom: 20px; }
.mb-30 { margin-bottom: 30px; }
`

// navigationScript scrolls smoothly to the section a TOC link points at and
// toggles the sidebar on small screens.
const navigationScript = `
document.querySelectorAll('a[href^="#"]').forEach(anchor => {
	anchor.addEventListener('click', function (e) {
		e.preventDefault();
		const target = document.querySelector(this.getAttribute('href'));
		if (target) {
			target.scrollIntoView({
				behavior: 'smooth',
				block: 'start'
			});
		}
	});
});

function toggleNav() {
	const nav = document.querySelector('.nav-container');
	nav.classList.toggle('open');
}
`
